package dto

import (
	"time"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// ReplyResponse is one outbound message in a turn response.
type ReplyResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// TurnResponse represents the outcome of processing one inbound message.
type TurnResponse struct {
	TurnID     string          `json:"turnId"`
	Capability string          `json:"capability"`
	FromStatus string          `json:"fromStatus"`
	ToStatus   string          `json:"toStatus"`
	Replies    []ReplyResponse `json:"replies"`
}

// TranscriptEntryResponse represents one archived message.
type TranscriptEntryResponse struct {
	ID        string                 `json:"id"`
	TurnID    string                 `json:"turnId"`
	Role      string                 `json:"role"`
	Text      string                 `json:"text"`
	Routing   *models.RoutingRecord  `json:"routing,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ListTranscriptResponse represents a page of a room's transcript.
type ListTranscriptResponse struct {
	RoomID  string                    `json:"roomId"`
	Entries []TranscriptEntryResponse `json:"entries"`
	Total   int64                     `json:"total"`
	Limit   int64                     `json:"limit"`
	Offset  int64                     `json:"offset"`
}

// SessionResponse represents a room's verification state with every secret
// masked. This is the only shape session state ever leaves the service in.
type SessionResponse struct {
	RoomID  string                 `json:"roomId"`
	Stored  bool                   `json:"stored"`
	Session map[string]interface{} `json:"session"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

package models

import "time"

// TranscriptRole identifies the author of a transcript entry.
type TranscriptRole string

const (
	// RoleMember is an inbound message from the member.
	RoleMember TranscriptRole = "member"
	// RoleAssistant is an outbound reply emitted by the service.
	RoleAssistant TranscriptRole = "assistant"
)

// TranscriptEntry is one archived message in a room's conversation history.
// Entries are written best-effort after each turn; secrets never appear here
// because only the message text and routing metadata are recorded.
type TranscriptEntry struct {
	ID        string          `json:"id" bson:"_id"`
	RoomID    string          `json:"roomId" bson:"roomId"`
	TurnID    string          `json:"turnId" bson:"turnId"`
	Role      TranscriptRole  `json:"role" bson:"role"`
	Text      string          `json:"text" bson:"text"`
	Routing   *RoutingRecord  `json:"routing,omitempty" bson:"routing,omitempty"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}

// RoutingRecord captures which capability claimed a turn and the state
// transition it produced. Attached to the inbound entry of each turn.
type RoutingRecord struct {
	Capability string `json:"capability" bson:"capability"`
	FromStatus string `json:"fromStatus" bson:"fromStatus"`
	ToStatus   string `json:"toStatus" bson:"toStatus"`
}

// NewTranscriptEntry creates an entry stamped with the current time.
func NewTranscriptEntry(id, roomID, turnID string, role TranscriptRole, text string) *TranscriptEntry {
	return &TranscriptEntry{
		ID:        id,
		RoomID:    roomID,
		TurnID:    turnID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

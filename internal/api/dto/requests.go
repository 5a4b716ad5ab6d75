// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SendMessageRequest represents the request body for an inbound member
// message.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1,max=4000"`
}

// ListTranscriptRequest represents the query parameters for listing a
// room's transcript.
type ListTranscriptRequest struct {
	Limit  int64 `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int64 `form:"offset" binding:"omitempty,min=0"`
}

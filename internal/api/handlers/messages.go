// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coopassist/verify-service/internal/api/dto"
	"github.com/coopassist/verify-service/internal/api/middleware"
	"github.com/coopassist/verify-service/internal/core/docdb"
	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/services/flow"
)

// MessagesHandler handles the inbound message webhook and the transcript
// read endpoints.
type MessagesHandler struct {
	engine      *flow.Engine
	transcripts docdb.TranscriptsCollection
}

// NewMessagesHandler creates a new MessagesHandler. The transcripts
// collection may be nil when archiving is disabled; the list endpoint then
// returns 404.
func NewMessagesHandler(engine *flow.Engine, transcripts docdb.TranscriptsCollection) *MessagesHandler {
	return &MessagesHandler{
		engine:      engine,
		transcripts: transcripts,
	}
}

// SendMessage handles POST /rooms/{roomId}/messages
// @Summary Process an inbound member message
// @Description Routes the message through the verification flow and returns the replies to emit
// @Tags Messages
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param request body dto.SendMessageRequest true "Inbound message"
// @Success 200 {object} dto.TurnResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/verify-service/rooms/{roomId}/messages [post]
func (h *MessagesHandler) SendMessage(c *gin.Context) {
	roomID := c.Param("roomId")

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationFailure("text", "is required"))
		return
	}

	result, err := h.engine.HandleTurn(c.Request.Context(), roomID, req.Text)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	logger := middleware.GetRequestLogger(c)
	logger.Info().
		Str("turn_id", result.TurnID).
		Str("capability", string(result.Capability)).
		Str("from_status", result.FromStatus).
		Str("to_status", result.ToStatus).
		Int("replies", len(result.Replies)).
		Msg("turn processed")

	resp := dto.TurnResponse{
		TurnID:     result.TurnID,
		Capability: string(result.Capability),
		FromStatus: result.FromStatus,
		ToStatus:   result.ToStatus,
		Replies:    make([]dto.ReplyResponse, 0, len(result.Replies)),
	}
	for _, r := range result.Replies {
		resp.Replies = append(resp.Replies, dto.ReplyResponse{ID: r.ID, Text: r.Text})
	}

	c.JSON(http.StatusOK, resp)
}

// GetMessages handles GET /rooms/{roomId}/messages
// @Summary List a room's transcript
// @Description Retrieves archived messages for a room with pagination, oldest first
// @Tags Messages
// @Produce json
// @Param roomId path string true "Room ID"
// @Param limit query int false "Maximum number of entries" default(50) minimum(1) maximum(200)
// @Param offset query int false "Offset for pagination" default(0) minimum(0)
// @Success 200 {object} dto.ListTranscriptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/verify-service/rooms/{roomId}/messages [get]
func (h *MessagesHandler) GetMessages(c *gin.Context) {
	if h.transcripts == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "transcript archive is disabled",
		})
		return
	}

	ctx := c.Request.Context()
	roomID := c.Param("roomId")

	var req dto.ListTranscriptRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewValidationFailure("query", "invalid pagination parameters"))
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	total, err := h.transcripts.CountByRoom(ctx, roomID)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to count transcript entries", err))
		return
	}

	entries, err := h.transcripts.List(ctx, &docdb.ListTranscriptOptions{
		RoomID:  roomID,
		Limit:   req.Limit,
		Skip:    req.Offset,
		OrderBy: docdb.SortOrderAsc,
	})
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to list transcript entries", err))
		return
	}

	resp := dto.ListTranscriptResponse{
		RoomID:  roomID,
		Entries: make([]dto.TranscriptEntryResponse, 0, len(entries)),
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.TranscriptEntryResponse{
			ID:        e.ID,
			TurnID:    e.TurnID,
			Role:      string(e.Role),
			Text:      e.Text,
			Routing:   e.Routing,
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

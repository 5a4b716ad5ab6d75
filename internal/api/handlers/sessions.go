// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coopassist/verify-service/internal/api/dto"
	"github.com/coopassist/verify-service/internal/api/middleware"
	"github.com/coopassist/verify-service/internal/services/session"
)

// SessionsHandler exposes read and reset access to per-room verification
// state, for operators debugging a stuck room.
type SessionsHandler struct {
	store session.Store
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(store session.Store) *SessionsHandler {
	return &SessionsHandler{store: store}
}

// GetSession handles GET /rooms/{roomId}/session
// @Summary Inspect a room's verification state
// @Description Returns the room's session with all secrets masked
// @Tags Sessions
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/verify-service/rooms/{roomId}/session [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	roomID := c.Param("roomId")

	sess := h.store.Get(c.Request.Context(), roomID)

	c.JSON(http.StatusOK, dto.SessionResponse{
		RoomID:  roomID,
		Stored:  sess.Stored,
		Session: sess.Redacted(),
	})
}

// DeleteSession handles DELETE /rooms/{roomId}/session
// @Summary Delete a room's verification state
// @Description Removes the room's session record; the next message starts a fresh flow
// @Tags Sessions
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/verify-service/rooms/{roomId}/session [delete]
func (h *SessionsHandler) DeleteSession(c *gin.Context) {
	roomID := c.Param("roomId")

	if err := h.store.Delete(c.Request.Context(), roomID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "deleted",
	})
}

// Package testutils provides test utilities and helpers.
package testutils

import (
	"time"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// Test constants
const (
	TestRoomID = "room-test-123"
	TestTurnID = "turn-test-456"
	TestTenant = "fusion"
)

// NewTestSession creates a stored mid-flow session with default values.
func NewTestSession() *models.Session {
	sess := models.NewSession(TestRoomID)
	sess.Status = models.StatusNeedCredentials
	sess.Tenant = TestTenant
	sess.TenantDisplayName = "FUSION"
	sess.Stored = true
	sess.UpdatedAt = time.Now().UTC()
	return sess
}

// NewTestTranscriptEntry creates a test transcript entry for a member message.
func NewTestTranscriptEntry(id string) *models.TranscriptEntry {
	entry := models.NewTranscriptEntry(id, TestRoomID, TestTurnID, models.RoleMember, "Test message content")
	entry.Routing = &models.RoutingRecord{
		Capability: "authenticate",
		FromStatus: string(models.StatusNeedTenant),
		ToStatus:   string(models.StatusNeedCredentials),
	}
	return entry
}

// NewTestTranscriptEntries creates a member/assistant pair for one turn.
func NewTestTranscriptEntries() []*models.TranscriptEntry {
	return []*models.TranscriptEntry{
		NewTestTranscriptEntry("entry-1"),
		models.NewTranscriptEntry("entry-2", TestRoomID, TestTurnID, models.RoleAssistant, "Test reply"),
	}
}

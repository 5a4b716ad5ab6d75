package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/session"
)

func storedSession(status models.SessionStatus, age time.Duration, now time.Time) *models.Session {
	return &models.Session{
		RoomID:    "room-1",
		Status:    status,
		UpdatedAt: now.Add(-age),
		Stored:    true,
	}
}

func TestIsExpired_PhaseThresholds(t *testing.T) {
	now := time.Date(2026, 3, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  models.SessionStatus
		age     time.Duration
		expired bool
	}{
		{"otp fresh", models.StatusNeedOTP, 14 * time.Minute, false},
		{"otp stale", models.StatusNeedOTP, 16 * time.Minute, true},
		{"credentials fresh", models.StatusNeedCredentials, 19 * time.Minute, false},
		{"credentials stale", models.StatusNeedCredentials, 21 * time.Minute, true},
		{"tenant fresh", models.StatusNeedTenant, 29 * time.Minute, false},
		{"tenant stale", models.StatusNeedTenant, 31 * time.Minute, true},
		{"failed fresh", models.StatusFailed, 29 * time.Minute, false},
		{"failed stale", models.StatusFailed, 31 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := storedSession(tt.status, tt.age, now)
			assert.Equal(t, tt.expired, session.IsExpired(sess, now))
		})
	}
}

func TestIsExpired_AuthenticatedNeverExpires(t *testing.T) {
	now := time.Now().UTC()

	sess := storedSession(models.StatusAuthenticated, 1000*time.Hour, now)
	assert.False(t, session.IsExpired(sess, now))
}

func TestIsExpired_AbsentNeverExpires(t *testing.T) {
	now := time.Now().UTC()

	assert.False(t, session.IsExpired(nil, now))

	// Implicit default sessions are not stored records.
	sess := models.NewSession("room-1")
	assert.False(t, session.IsExpired(sess, now))
}

package session

import (
	"time"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// Phase-dependent idle thresholds. A member waiting on an OTP goes stale
// fastest; an idle prompt for the cooperative name is tolerated longest.
const (
	// OTPExpiry applies to NEED_OTP sessions.
	OTPExpiry = 15 * time.Minute
	// CredentialsExpiry applies to NEED_CREDENTIALS sessions.
	CredentialsExpiry = 20 * time.Minute
	// DefaultExpiry applies to NEED_TENANT and FAILED sessions.
	DefaultExpiry = 30 * time.Minute
)

// IsExpired reports whether a room's in-progress flow has gone stale and must
// be force-reset before routing. Authenticated sessions and implicit default
// sessions never expire. This check runs at the start of every turn so a
// stale session cannot leak into a later phase's handler.
func IsExpired(sess *models.Session, now time.Time) bool {
	if sess == nil || !sess.Stored {
		return false
	}
	if sess.Status == models.StatusAuthenticated {
		return false
	}

	var threshold time.Duration
	switch sess.Status {
	case models.StatusNeedOTP:
		threshold = OTPExpiry
	case models.StatusNeedCredentials:
		threshold = CredentialsExpiry
	default:
		threshold = DefaultExpiry
	}

	return now.Sub(sess.UpdatedAt) > threshold
}

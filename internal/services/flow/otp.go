package flow

import (
	"strings"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/loans"
)

// handleVerifyOTP checks the entered digits against the expected passcode.
// The comparison is exact string match: "007" and "7" are different codes.
// A mismatch leaves the session untouched; there is no attempt counter, the
// member can retry until the phase expires.
func (t *turn) handleVerifyOTP() {
	entered := strings.TrimSpace(t.message)

	if entered != t.sess.OTPExpected {
		t.reply(msgOTPMismatch)
		return
	}

	next := *t.sess
	next.Status = models.StatusAuthenticated
	next.OTPExpected = ""
	next.VerifiedAt = t.engine.now()
	if !t.persist(&next) {
		return
	}
	t.reply(msgVerified)

	// A request stashed before verification runs now, without making the
	// member repeat it.
	if t.sess.Pending == models.IntentLoanLookup {
		t.runLoanFetch(loans.InfoDetails)
	}
}

package flow

import (
	"strings"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/nlg"
)

// resetKeywords unconditionally wipe the room's state, regardless of phase.
var resetKeywords = []string{
	"reset",
	"start over",
	"start again",
	"restart",
	"begin again",
}

// authKeywords claim a turn for the verification flow.
var authKeywords = []string{
	"verify",
	"verification",
	"authenticate",
	"log in",
	"login",
	"sign in",
	"identify",
}

// loanKeywords claim a turn for the loan capability, in any phase. A loan
// enquiry mid-verification is stashed as the pending intent rather than
// rejected.
var loanKeywords = []string{
	"loan",
	"borrow",
	"balance",
	"repayment",
	"installment",
	"instalment",
	"owe",
}

// Route decides which capability claims a message. The rules run in a fixed
// order and the order is load-bearing; historically, misordered routing let
// stray numbers be swallowed as tenant names.
//
//  1. A purely numeric message is a passcode candidate. It goes to
//     verifyOtp only when the room is actually waiting for a passcode;
//     no other capability may ever claim numeric input.
//  2. Reset keywords always win, even mid-flow.
//  3. An authenticated room with a stashed intent resumes that intent on
//     the next message, whatever it says.
//  4. Loan keywords claim the turn in any phase; the loan capability
//     redirects through verification internally when needed. This also
//     covers messages carrying both loan and auth keywords ("log in to
//     check my loan" is a loan enquiry).
//  5. Any other message from an unverified room feeds the verification
//     flow: it is the answer to the current prompt, or the opening
//     message that starts the flow.
//  6. Auth keywords from a verified member restart verification.
//  7. Everything else is generic small talk.
func Route(message string, sess *models.Session) Capability {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	if nlg.IsDigits(trimmed) {
		if sess.Stored && sess.Status == models.StatusNeedOTP {
			return CapVerifyOTP
		}
		return CapGeneric
	}

	if containsAny(lower, resetKeywords) {
		return CapReset
	}

	if sess.Authenticated() && sess.Pending == models.IntentLoanLookup {
		return CapLoanLookup
	}

	if containsAny(lower, loanKeywords) {
		return CapLoanLookup
	}

	if !sess.Authenticated() {
		return CapAuthenticate
	}

	if containsAny(lower, authKeywords) {
		return CapAuthenticate
	}

	return CapGeneric
}

func containsAny(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

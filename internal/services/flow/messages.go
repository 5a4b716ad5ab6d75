package flow

import (
	"fmt"
	"strings"
)

// Member-facing copy. Kept in one place so wording changes never touch
// handler logic.
const (
	msgStorageRetry = "Sorry, something went wrong on my side. Please send that again in a moment."

	msgAskTenant        = "Happy to help! Which savings cooperative are you a member of?"
	msgAskTenantForLoan = "Happy to help with your loan. First I need to verify you. Which savings cooperative are you a member of?"

	msgAskCredentials      = "You're with %s. Please share the email address and employee number registered with your cooperative."
	msgAskCredentialsShort = "Please share the email address and employee number registered with your cooperative."

	msgAskEmail          = "Almost there. What is the email address registered with your cooperative?"
	msgAskEmployeeNumber = "Almost there. What is your employee number?"
	msgBadEmail          = "That email address doesn't look right. Please send it again, for example name@company.com."

	msgCredentialsUnreadable = "I couldn't read your details from that. Please send your email address and employee number."

	msgInvalidCredentials = "Those details don't match your cooperative's records. Please check your email address and employee number and try again."
	msgMemberNotFound     = "I couldn't find a member with those details at your cooperative. Please check them and try again."
	msgUpstreamDown       = "Your cooperative's system isn't responding right now. Please try again in a few minutes."

	msgAskOTP      = "Your cooperative has sent you a one-time passcode. Please enter it here."
	msgOTPMismatch = "That passcode doesn't match. Please check the code your cooperative sent you and enter it again."
	msgVerified    = "You're verified! How can I help you today?"

	msgResetDone = "Okay, let's start over. Which savings cooperative are you a member of?"

	msgRestartAfterFailure = "Sorry, we hit a problem and your verification was restarted. Which savings cooperative are you a member of?"

	msgTimedOut = "It's been a while, so I've restarted your verification to keep your details safe. Which savings cooperative are you a member of?"

	msgFetchingLoan = "One moment while I fetch your loan information..."

	msgLoanUnauthorized = "Your verification has expired, so I need to verify you again before sharing loan details. Which savings cooperative are you a member of?"
	msgLoanUpstreamDown = "I couldn't reach your cooperative's loan system. Let's verify you again and retry. Which savings cooperative are you a member of?"

	msgGenericAuthed   = "You're verified. You can ask me about your loan, or say \"reset\" to start over."
	msgGenericUnauthed = "Hello! I help members of savings cooperatives check their loans. Ask me about your loan, or say \"verify me\" to get started."
)

// msgTenantNotFound prompts again with a few example cooperatives.
func msgTenantNotFound(examples []string) string {
	return fmt.Sprintf(
		"I couldn't match that to a cooperative I know. Please tell me its name, for example: %s.",
		strings.Join(examples, ", "))
}

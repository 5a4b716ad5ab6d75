// Package flow routes inbound messages to capabilities and drives the
// verification state machine.
package flow

// Capability names the handler that claims a turn. The names are recorded in
// the transcript routing metadata, so they are part of the observable
// surface and must stay stable.
type Capability string

const (
	// CapReset wipes the room's verification state.
	CapReset Capability = "reset"
	// CapAuthenticate advances the verification flow one step.
	CapAuthenticate Capability = "authenticate"
	// CapVerifyOTP checks a numeric message against the expected passcode.
	CapVerifyOTP Capability = "verifyOtp"
	// CapLoanLookup answers a loan enquiry, deferring it behind
	// verification when needed.
	CapLoanLookup Capability = "loanLookup"
	// CapGeneric handles everything nothing else claims.
	CapGeneric Capability = "generic"
)

// Reply is one outbound message produced by a turn.
type Reply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Result is the outcome of processing one inbound message.
type Result struct {
	TurnID     string      `json:"turnId"`
	Capability Capability  `json:"capability"`
	FromStatus string      `json:"fromStatus"`
	ToStatus   string      `json:"toStatus"`
	Replies    []Reply     `json:"replies"`
}

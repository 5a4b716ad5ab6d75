// Package nlg wraps the external text-generation collaborator.
//
// The provider is the only seam to the generation service; everything it
// returns is treated as untrusted free text. Extraction helpers layer
// deterministic fast paths on top so unambiguous input (a bare OTP, a literal
// cooperative name) never costs a generation call, and every JSON-shaped
// response is stripped of code fences and parsed with explicit error handling.
package nlg

import (
	"context"
	"errors"
)

// ErrMalformedOutput is returned when the generation service responds but the
// body cannot be interpreted as the requested structure. Callers fall back to
// a deterministic path or re-prompt the member.
var ErrMalformedOutput = errors.New("nlg: malformed response from generation service")

// SizeHint selects the model class for a request. Extraction calls run on the
// small model; free-prose rendering may use the large one.
type SizeHint string

const (
	// SizeSmall requests the cost-efficient model.
	SizeSmall SizeHint = "small"
	// SizeLarge requests the larger model.
	SizeLarge SizeHint = "large"
)

// CompletionRequest is one call to the text-generation collaborator.
type CompletionRequest struct {
	// Instruction is the full instruction text.
	Instruction string

	// Stop is an optional stop sequence.
	Stop string

	// SizeHint selects the model class. Defaults to SizeSmall.
	SizeHint SizeHint
}

// Provider is the text-generation collaborator boundary. Implementations must
// be safe for concurrent use.
type Provider interface {
	// Complete sends the instruction and returns the raw response text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

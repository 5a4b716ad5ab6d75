package loans

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/nlg"
)

// NoActiveLoanMessage is the fixed reply for empty loan data. Neither the
// sanitizer nor the generation service runs in that case.
const NoActiveLoanMessage = "I couldn't find an active loan on your account. If you believe this is a mistake, please contact your cooperative directly."

// maxPayloadChars bounds the sanitized payload embedded in the generation
// instruction.
const maxPayloadChars = 4000

// renderInstructionTmpl: %s infoType focus, %s payload JSON.
const renderInstructionTmpl = `You are a helpful assistant for savings cooperative members. Using only the
loan data below, write a short, friendly answer (2-3 sentences) focused on the
member's question about: %s.

Loan data (JSON):
%s

Do not invent figures. Do not mention JSON or field names verbatim.`

// Renderer turns sanitized loan data into a member-facing reply.
type Renderer struct {
	provider nlg.Provider
}

// NewRenderer creates a renderer over the given generation provider.
func NewRenderer(provider nlg.Provider) *Renderer {
	return &Renderer{provider: provider}
}

// Render produces the reply for a loan enquiry. Empty data short-circuits to
// the fixed no-active-loan message. Otherwise the sanitized payload goes to
// the generation provider; any failure or unusable output falls back to the
// deterministic template path.
func (r *Renderer) Render(ctx context.Context, data models.LoanData, infoType InfoType) string {
	if data.Empty() {
		return NoActiveLoanMessage
	}

	sanitized := SanitizeData(data)

	payload, err := json.Marshal(sanitized)
	if err != nil {
		return RenderFallback(sanitized, infoType)
	}
	text := string(payload)
	if len(text) > maxPayloadChars {
		text = text[:maxPayloadChars]
	}

	raw, err := r.provider.Complete(ctx, nlg.CompletionRequest{
		Instruction: fmt.Sprintf(renderInstructionTmpl, string(infoType), text),
		SizeHint:    nlg.SizeLarge,
	})
	if err != nil {
		return RenderFallback(sanitized, infoType)
	}

	reply := strings.TrimSpace(nlg.StripCodeFences(raw))
	if reply == "" {
		return RenderFallback(sanitized, infoType)
	}
	return reply
}

// RenderFallback renders a fixed-template sentence per info type by scanning
// the sanitized keys heuristically. Always produces something readable, with
// no dependency on the generation service.
func RenderFallback(data models.LoanData, infoType InfoType) string {
	if data.Empty() {
		return NoActiveLoanMessage
	}
	rec := firstNonEmpty(data)

	amount := firstValueContaining(rec, "amount")
	if amount == "" {
		amount = firstValueContaining(rec, "balance")
	}
	status := firstValueContaining(rec, "status")
	due := firstValueContainingAll(rec, "next", "payment")
	if due == "" {
		due = firstValueContainingAll(rec, "due", "date")
	}

	switch infoType {
	case InfoStatus:
		if status != "" {
			return fmt.Sprintf("Your loan is currently marked as %s.", status)
		}
	case InfoAmount:
		if amount != "" {
			return fmt.Sprintf("Your outstanding loan amount is %s.", amount)
		}
	case InfoPayment:
		if due != "" {
			return fmt.Sprintf("Your next loan payment is due on %s.", due)
		}
	case InfoEligibility:
		if status != "" {
			return fmt.Sprintf("Based on your records, your current loan status is %s. Your cooperative can confirm what you qualify for next.", status)
		}
	case InfoHistory:
		return fmt.Sprintf("I found %d loan record(s) on your account. Ask me about any of them for details.", len(data.Records))
	}

	// DETAILS and any template whose key was missing: enumerate what we have.
	return summarize(rec)
}

// summarize lists up to four fields of a record as a plain sentence.
func summarize(rec models.LoanRecord) string {
	var parts []string
	for _, f := range rec.Fields {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Key, f.Value))
		if len(parts) == 4 {
			break
		}
	}
	if len(parts) == 0 {
		return NoActiveLoanMessage
	}
	return "Here's what I have on your loan: " + strings.Join(parts, ", ") + "."
}

// firstNonEmpty returns the first record with fields.
func firstNonEmpty(data models.LoanData) models.LoanRecord {
	for _, rec := range data.Records {
		if !rec.Empty() {
			return rec
		}
	}
	return models.LoanRecord{}
}

// firstValueContaining returns the value of the first key containing sub.
func firstValueContaining(rec models.LoanRecord, sub string) string {
	for _, f := range rec.Fields {
		if strings.Contains(strings.ToLower(f.Key), sub) {
			return fmt.Sprintf("%v", f.Value)
		}
	}
	return ""
}

// firstValueContainingAll returns the value of the first key containing every
// substring.
func firstValueContainingAll(rec models.LoanRecord, subs ...string) string {
	for _, f := range rec.Fields {
		key := strings.ToLower(f.Key)
		all := true
		for _, sub := range subs {
			if !strings.Contains(key, sub) {
				all = false
				break
			}
		}
		if all {
			return fmt.Sprintf("%v", f.Value)
		}
	}
	return ""
}

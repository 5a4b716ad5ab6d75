package nlg

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
)

// UnknownSentinel is the no-match marker the extraction prompts instruct the
// model to emit. It never collides with a directory key.
const UnknownSentinel = "UNKNOWN"

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	fenceLine  = regexp.MustCompile("^```[a-zA-Z]*$")
)

// Extractor pulls structured data out of free text through the generation
// provider, with deterministic fast paths where the input is unambiguous.
type Extractor struct {
	provider Provider
}

// NewExtractor creates an extractor over the given provider.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// IsDigits reports whether the message is purely numeric. Digit-only input is
// taken verbatim as an OTP candidate and never sent to the provider.
func IsDigits(s string) bool {
	return digitsOnly.MatchString(strings.TrimSpace(s))
}

const tenantInstructionTmpl = `A member of a savings cooperative sent this message:

%q

Which of these cooperatives are they referring to?
%s

Answer with exactly one name from the list, or %s if none applies. No other words.`

// ExtractTenant asks the provider which candidate the message refers to.
// Returns "" (no error) when the model answers with the unknown sentinel;
// returns a RESOLUTION_FAILURE when the call fails or the answer is not a
// candidate.
func (e *Extractor) ExtractTenant(ctx context.Context, message string, candidates []string) (string, error) {
	instruction := fmt.Sprintf(tenantInstructionTmpl, message, strings.Join(candidates, "\n"), UnknownSentinel)

	raw, err := e.provider.Complete(ctx, CompletionRequest{
		Instruction: instruction,
		Stop:        "\n",
		SizeHint:    SizeSmall,
	})
	if err != nil {
		return "", domainerrors.NewResolutionFailure("cooperative name", err)
	}

	answer := strings.ToUpper(strings.TrimSpace(StripCodeFences(raw)))
	if answer == "" || answer == UnknownSentinel {
		return "", nil
	}
	for _, c := range candidates {
		if strings.EqualFold(answer, c) {
			return c, nil
		}
	}
	return "", domainerrors.NewResolutionFailure("cooperative name", ErrMalformedOutput)
}

const credentialsInstructionTmpl = `Extract the member's email address and employee number from this message:

%q

Respond with only a JSON object of this exact shape, using null for anything
the message does not contain:
{"email": "...", "employee_number": "..."}`

// credentialsPayload is the wire shape the credentials prompt requests.
type credentialsPayload struct {
	Email          *string `json:"email"`
	EmployeeNumber *string `json:"employee_number"`
}

// ExtractCredentials pulls {email, employee number} out of free text. Either
// field may come back empty; the caller merges with previously collected
// fields. The provider's output is fence-stripped and parsed defensively.
func (e *Extractor) ExtractCredentials(ctx context.Context, message string) (models.PartialCredentials, error) {
	raw, err := e.provider.Complete(ctx, CompletionRequest{
		Instruction: fmt.Sprintf(credentialsInstructionTmpl, message),
		SizeHint:    SizeSmall,
	})
	if err != nil {
		return models.PartialCredentials{}, domainerrors.NewResolutionFailure("credentials", err)
	}

	var payload credentialsPayload
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &payload); err != nil {
		return models.PartialCredentials{}, domainerrors.NewResolutionFailure("credentials", ErrMalformedOutput)
	}

	creds := models.PartialCredentials{}
	if payload.Email != nil {
		creds.Email = strings.TrimSpace(*payload.Email)
	}
	if payload.EmployeeNumber != nil {
		creds.EmployeeNumber = strings.TrimSpace(*payload.EmployeeNumber)
	}
	return creds, nil
}

// loanIntentKeywords is the deterministic fast path for classifying what a
// loan enquiry is asking about. Checked in order; first hit wins.
var loanIntentKeywords = []struct {
	words    []string
	infoType string
}{
	{[]string{"balance", "how much do i owe", "outstanding"}, "AMOUNT"},
	{[]string{"amount", "owe"}, "AMOUNT"},
	{[]string{"next payment", "installment", "instalment", "due"}, "PAYMENT"},
	{[]string{"eligib", "qualify", "can i get", "can i borrow"}, "ELIGIBILITY"},
	{[]string{"history", "statement", "past payments"}, "HISTORY"},
	{[]string{"status", "approved", "disbursed"}, "STATUS"},
}

const loanIntentInstructionTmpl = `A cooperative member asked about their loan:

%q

Classify the enquiry as exactly one of: STATUS, AMOUNT, PAYMENT, ELIGIBILITY,
HISTORY, DETAILS. Answer with the single word only.`

// ExtractLoanIntent classifies a loan enquiry into an info type. Keyword
// matching is tried first; the provider is only consulted for ambiguous
// phrasing, and any failure degrades to DETAILS rather than erroring.
func (e *Extractor) ExtractLoanIntent(ctx context.Context, message string) string {
	lower := strings.ToLower(message)
	for _, k := range loanIntentKeywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.infoType
			}
		}
	}

	raw, err := e.provider.Complete(ctx, CompletionRequest{
		Instruction: fmt.Sprintf(loanIntentInstructionTmpl, message),
		Stop:        "\n",
		SizeHint:    SizeSmall,
	})
	if err != nil {
		return "DETAILS"
	}
	return strings.ToUpper(strings.TrimSpace(StripCodeFences(raw)))
}

// StripCodeFences removes markdown code-fence lines from a response. The
// generation service is untrusted: JSON answers routinely arrive wrapped in
// ``` fences despite instructions.
func StripCodeFences(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	var kept []string
	for _, line := range lines {
		if fenceLine.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

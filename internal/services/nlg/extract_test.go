package nlg_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/services/nlg"
	"github.com/coopassist/verify-service/tests/mocks"
)

var candidates = []string{"FUSION", "IMMIGRATION", "STIMA"}

func TestIsDigits(t *testing.T) {
	assert.True(t, nlg.IsDigits("123456"))
	assert.True(t, nlg.IsDigits("  007  "))
	assert.False(t, nlg.IsDigits("12a4"))
	assert.False(t, nlg.IsDigits("one two"))
	assert.False(t, nlg.IsDigits(""))
}

func TestStripCodeFences(t *testing.T) {
	fenced := "```json\n{\"email\": \"a@b.com\"}\n```"
	assert.Equal(t, `{"email": "a@b.com"}`, nlg.StripCodeFences(fenced))

	// Unfenced text passes through.
	assert.Equal(t, "plain", nlg.StripCodeFences("  plain  "))
}

func TestExtractTenant_Match(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("fusion\n", nil)

	e := nlg.NewExtractor(provider)
	got, err := e.ExtractTenant(context.Background(), "the fusion one", candidates)

	require.NoError(t, err)
	assert.Equal(t, "FUSION", got)
}

func TestExtractTenant_UnknownSentinel(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("UNKNOWN", nil)

	e := nlg.NewExtractor(provider)
	got, err := e.ExtractTenant(context.Background(), "no idea", candidates)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExtractTenant_AnswerNotACandidate(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("EQUITY BANK", nil)

	e := nlg.NewExtractor(provider)
	_, err := e.ExtractTenant(context.Background(), "equity", candidates)

	assert.Error(t, err)
	assert.True(t, domainerrors.IsResolution(err))
}

func TestExtractTenant_ProviderError(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	e := nlg.NewExtractor(provider)
	_, err := e.ExtractTenant(context.Background(), "fusion", candidates)

	assert.Error(t, err)
	assert.True(t, domainerrors.IsResolution(err))
}

func TestExtractCredentials_BothFields(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).
		Return("```json\n{\"email\": \"jane@example.com\", \"employee_number\": \"E-42\"}\n```", nil)

	e := nlg.NewExtractor(provider)
	creds, err := e.ExtractCredentials(context.Background(), "jane@example.com, E-42")

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", creds.Email)
	assert.Equal(t, "E-42", creds.EmployeeNumber)
}

func TestExtractCredentials_NullFields(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"email": null, "employee_number": "77"}`, nil)

	e := nlg.NewExtractor(provider)
	creds, err := e.ExtractCredentials(context.Background(), "it's 77")

	require.NoError(t, err)
	assert.Empty(t, creds.Email)
	assert.Equal(t, "77", creds.EmployeeNumber)
}

func TestExtractCredentials_MalformedOutput(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("sure, here you go:", nil)

	e := nlg.NewExtractor(provider)
	_, err := e.ExtractCredentials(context.Background(), "whatever")

	assert.Error(t, err)
	assert.True(t, domainerrors.IsResolution(err))
}

func TestExtractLoanIntent_KeywordFastPath(t *testing.T) {
	// Keyword hits never touch the provider.
	provider := &mocks.MockProvider{}

	e := nlg.NewExtractor(provider)
	assert.Equal(t, "AMOUNT", e.ExtractLoanIntent(context.Background(), "what's my balance?"))
	assert.Equal(t, "PAYMENT", e.ExtractLoanIntent(context.Background(), "when is my next payment"))
	assert.Equal(t, "ELIGIBILITY", e.ExtractLoanIntent(context.Background(), "can I borrow more"))

	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractLoanIntent_ProviderFailureDegrades(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	e := nlg.NewExtractor(provider)
	assert.Equal(t, "DETAILS", e.ExtractLoanIntent(context.Background(), "tell me things"))
}

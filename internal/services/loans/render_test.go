package loans_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/loans"
	"github.com/coopassist/verify-service/tests/mocks"
)

func loanData(t *testing.T, raw string) models.LoanData {
	t.Helper()
	var data models.LoanData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestRender_EmptyDataShortCircuits(t *testing.T) {
	// The provider must never be consulted for empty data.
	provider := &mocks.MockProvider{}
	r := loans.NewRenderer(provider)

	assert.Equal(t, loans.NoActiveLoanMessage, r.Render(context.Background(), models.LoanData{}, loans.InfoDetails))
	assert.Equal(t, loans.NoActiveLoanMessage, r.Render(context.Background(), loanData(t, `{}`), loans.InfoDetails))
	assert.Equal(t, loans.NoActiveLoanMessage, r.Render(context.Background(), loanData(t, `[]`), loans.InfoDetails))

	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestRender_UsesProviderOutput(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).
		Return("Your loan is active and 50,000.00 is outstanding.", nil)

	r := loans.NewRenderer(provider)
	got := r.Render(context.Background(), loanData(t, `{"loanStatus":"active","amountDue":50000}`), loans.InfoAmount)

	assert.Equal(t, "Your loan is active and 50,000.00 is outstanding.", got)
}

func TestRender_FallsBackOnProviderError(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	r := loans.NewRenderer(provider)
	got := r.Render(context.Background(), loanData(t, `{"amountDue":50000}`), loans.InfoAmount)

	assert.Equal(t, "Your outstanding loan amount is 50000.00.", got)
}

func TestRender_FallsBackOnEmptyOutput(t *testing.T) {
	provider := &mocks.MockProvider{}
	provider.On("Complete", mock.Anything, mock.Anything).Return("\n\n", nil)

	r := loans.NewRenderer(provider)
	got := r.Render(context.Background(), loanData(t, `{"loanStatus":"approved"}`), loans.InfoStatus)

	assert.Equal(t, "Your loan is currently marked as approved.", got)
}

func TestRenderFallback_Templates(t *testing.T) {
	data := loans.SanitizeData(loanData(t, `{"loanStatus":"active","amountDue":50000,"dueDate":"2025-03-25T00:00:00Z"}`))

	assert.Equal(t, "Your loan is currently marked as active.",
		loans.RenderFallback(data, loans.InfoStatus))
	assert.Equal(t, "Your outstanding loan amount is 50000.00.",
		loans.RenderFallback(data, loans.InfoAmount))
	assert.Equal(t, "Your next loan payment is due on 2025-03-25T00:00:00Z.",
		loans.RenderFallback(data, loans.InfoPayment))
}

func TestRenderFallback_DetailsSummarizes(t *testing.T) {
	data := loanData(t, `{"loanId":"L1","product":"emergency"}`)

	got := loans.RenderFallback(data, loans.InfoDetails)

	assert.Contains(t, got, "loanId: L1")
	assert.Contains(t, got, "product: emergency")
}

func TestRenderFallback_MissingTemplateKeyDegradesToSummary(t *testing.T) {
	data := loanData(t, `{"loanId":"L1"}`)

	got := loans.RenderFallback(data, loans.InfoAmount)

	assert.Contains(t, got, "loanId: L1")
}

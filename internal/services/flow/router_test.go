package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/flow"
)

func stored(status models.SessionStatus) *models.Session {
	return &models.Session{RoomID: "room-1", Status: status, Stored: true}
}

func fresh() *models.Session {
	return models.NewSession("room-1")
}

func TestRoute_NumericOnlyReachesVerifyOTPInOTPPhase(t *testing.T) {
	assert.Equal(t, flow.CapVerifyOTP, flow.Route("123456", stored(models.StatusNeedOTP)))

	// Everywhere else a bare number is claimed by nobody.
	for _, sess := range []*models.Session{
		fresh(),
		stored(models.StatusNeedTenant),
		stored(models.StatusNeedCredentials),
		stored(models.StatusAuthenticated),
		stored(models.StatusFailed),
	} {
		got := flow.Route("123456", sess)
		assert.Equal(t, flow.CapGeneric, got, "status %s", sess.Status)
	}
}

func TestRoute_NumericNeverAuthenticateOrLoanLookup(t *testing.T) {
	for _, sess := range []*models.Session{
		fresh(),
		stored(models.StatusNeedTenant),
		stored(models.StatusNeedCredentials),
		stored(models.StatusNeedOTP),
		stored(models.StatusAuthenticated),
	} {
		got := flow.Route("42", sess)
		assert.NotEqual(t, flow.CapAuthenticate, got, "status %s", sess.Status)
		assert.NotEqual(t, flow.CapLoanLookup, got, "status %s", sess.Status)
	}
}

func TestRoute_NonDigitNeverVerifyOTP(t *testing.T) {
	messages := []string{"hello", "123abc", "my code is 123456", "reset"}
	for _, msg := range messages {
		got := flow.Route(msg, stored(models.StatusNeedOTP))
		assert.NotEqual(t, flow.CapVerifyOTP, got, "message %q", msg)
	}
}

func TestRoute_ResetKeywordsAlwaysWin(t *testing.T) {
	for _, sess := range []*models.Session{
		fresh(),
		stored(models.StatusNeedCredentials),
		stored(models.StatusNeedOTP),
		stored(models.StatusAuthenticated),
	} {
		assert.Equal(t, flow.CapReset, flow.Route("please reset", sess), "status %s", sess.Status)
	}

	// Reset beats a loan keyword in the same message.
	assert.Equal(t, flow.CapReset, flow.Route("reset my loan chat", stored(models.StatusNeedCredentials)))
}

func TestRoute_PendingIntentResumes(t *testing.T) {
	sess := stored(models.StatusAuthenticated)
	sess.Pending = models.IntentLoanLookup

	assert.Equal(t, flow.CapLoanLookup, flow.Route("ok go ahead", sess))
}

func TestRoute_LoanKeywordsClaimInAnyPhase(t *testing.T) {
	for _, sess := range []*models.Session{
		fresh(),
		stored(models.StatusNeedTenant),
		stored(models.StatusNeedCredentials),
		stored(models.StatusAuthenticated),
	} {
		got := flow.Route("what's my loan balance?", sess)
		assert.Equal(t, flow.CapLoanLookup, got, "status %s", sess.Status)
	}
}

func TestRoute_AmbiguousAuthAndLoanDefersToLoan(t *testing.T) {
	assert.Equal(t, flow.CapLoanLookup, flow.Route("log in to check my loan", fresh()))
}

func TestRoute_UnverifiedMessagesFeedTheFlow(t *testing.T) {
	// The opening message of a fresh room starts verification.
	assert.Equal(t, flow.CapAuthenticate, flow.Route("I'm from FUSION", fresh()))

	// Mid-flow answers continue it.
	assert.Equal(t, flow.CapAuthenticate, flow.Route("jane@example.com", stored(models.StatusNeedCredentials)))
	assert.Equal(t, flow.CapAuthenticate, flow.Route("try again please", stored(models.StatusFailed)))
}

func TestRoute_AuthenticatedGenericAndRestart(t *testing.T) {
	sess := stored(models.StatusAuthenticated)

	assert.Equal(t, flow.CapGeneric, flow.Route("thanks!", sess))
	assert.Equal(t, flow.CapAuthenticate, flow.Route("verify me again", sess))
}

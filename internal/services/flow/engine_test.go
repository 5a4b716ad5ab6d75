package flow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	rediscache "github.com/coopassist/verify-service/internal/infrastructure/cache/redis"
	"github.com/coopassist/verify-service/internal/pkg/encryption"
	"github.com/coopassist/verify-service/internal/services/flow"
	"github.com/coopassist/verify-service/internal/services/loans"
	"github.com/coopassist/verify-service/internal/services/nlg"
	"github.com/coopassist/verify-service/internal/services/session"
	"github.com/coopassist/verify-service/internal/services/tenantapi"
	"github.com/coopassist/verify-service/internal/services/tenantdir"
	"github.com/coopassist/verify-service/tests/mocks"
)

type engineFixture struct {
	engine    *flow.Engine
	store     session.Store
	provider  *mocks.MockProvider
	tenantAPI *mocks.MockTenantAPIClient
	// now is the fixture clock; tests advance it to simulate elapsed time.
	now time.Time
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	f := &engineFixture{
		provider:  &mocks.MockProvider{},
		tenantAPI: &mocks.MockTenantAPIClient{},
		now:       time.Date(2026, 3, 25, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.store, err = session.NewStore(&session.Config{
		CacheClient: client,
		Encryptor:   encryption.NewNoOpEncryptor(),
		Now:         clock,
	})
	require.NoError(t, err)

	f.engine, err = flow.NewEngine(&flow.EngineConfig{
		Store:     f.store,
		Resolver:  tenantdir.NewResolver(tenantdir.NewDirectory()),
		Extractor: nlg.NewExtractor(f.provider),
		TenantAPI: f.tenantAPI,
		Renderer:  loans.NewRenderer(f.provider),
		Logger:    zerolog.Nop(),
		Now:       clock,
	})
	require.NoError(t, err)

	return f
}

func loanDataFromJSON(t *testing.T, raw string) models.LoanData {
	t.Helper()
	var data models.LoanData
	require.NoError(t, data.UnmarshalJSON([]byte(raw)))
	return data
}

func replyTexts(result *flow.Result) []string {
	texts := make([]string, 0, len(result.Replies))
	for _, r := range result.Replies {
		texts = append(texts, r.Text)
	}
	return texts
}

func TestHandleTurn_RequiresRoomID(t *testing.T) {
	f := setupEngine(t)

	_, err := f.engine.HandleTurn(context.Background(), "", "hello")

	assert.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.ErrCodeValidation))
}

func TestHandleTurn_FreshRoomTenantExactMatch(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	result, err := f.engine.HandleTurn(ctx, "room-1", "I'm from FUSION")

	require.NoError(t, err)
	assert.Equal(t, flow.CapAuthenticate, result.Capability)
	assert.Equal(t, string(models.StatusNeedCredentials), result.ToStatus)

	sess := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedCredentials, sess.Status)
	assert.Equal(t, "fusion", sess.Tenant)

	// The resolver's fast path handled it; the generation service was
	// never consulted.
	f.provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestHandleTurn_TenantNotResolved_PromptsWithExamples(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("UNKNOWN", nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "the one near the market")

	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.Contains(t, result.Replies[0].Text, "FUSION")

	// The room is now mid-flow, so the next message continues here.
	sess := f.store.Get(ctx, "room-1")
	assert.True(t, sess.Stored)
	assert.Equal(t, models.StatusNeedTenant, sess.Status)
}

func TestHandleTurn_CredentialsComplete_CallsTenantAPI(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedCredentials
	sess.Tenant = "fusion"
	sess.TenantDisplayName = "FUSION"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"email": "jane@example.com", "employee_number": "E-42"}`, nil)
	f.tenantAPI.On("Authenticate", mock.Anything, "jane@example.com", "E-42", "fusion").
		Return(&tenantapi.AuthResult{OTP: "007", Token: "tok-1"}, nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "jane@example.com, employee E-42")

	require.NoError(t, err)
	assert.Equal(t, string(models.StatusNeedOTP), result.ToStatus)

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedOTP, got.Status)
	assert.Equal(t, "007", got.OTPExpected)
	assert.Equal(t, "tok-1", got.AuthToken)
	assert.Equal(t, "E-42", got.EmployeeNumber)
	// Partial credentials are cleared once verified upstream.
	assert.Empty(t, got.Credentials.Email)
	assert.Empty(t, got.Credentials.EmployeeNumber)
}

func TestHandleTurn_CredentialsPartial_AsksForMissingField(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedCredentials
	sess.Tenant = "fusion"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"email": "jane@example.com", "employee_number": null}`, nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "my email is jane@example.com")

	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.Contains(t, result.Replies[0].Text, "employee number")

	// The partial field was re-stored for the next turn to merge onto.
	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedCredentials, got.Status)
	assert.Equal(t, "jane@example.com", got.Credentials.Email)

	f.tenantAPI.AssertNotCalled(t, "Authenticate",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_InvalidEmail_NeverCallsTenantAPI(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedCredentials
	sess.Tenant = "fusion"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"email": "not-an-email", "employee_number": "E-42"}`, nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "not-an-email, E-42")

	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.Contains(t, result.Replies[0].Text, "email")

	f.tenantAPI.AssertNotCalled(t, "Authenticate",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_UpstreamRejection_StaysInCredentials(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedCredentials
	sess.Tenant = "fusion"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).
		Return(`{"email": "jane@example.com", "employee_number": "E-42"}`, nil)
	f.tenantAPI.On("Authenticate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.NewUpstreamAuthError(domainerrors.KindInvalidCredentials, nil))

	result, err := f.engine.HandleTurn(ctx, "room-1", "jane@example.com E-42")

	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.Contains(t, result.Replies[0].Text, "don't match")

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedCredentials, got.Status)
}

func TestHandleTurn_OTPExactStringMatch(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedOTP
	sess.OTPExpected = "007"
	sess.AuthToken = "tok-1"
	require.NoError(t, f.store.Put(ctx, sess))

	// "7" is numerically equal but not the same code.
	result, err := f.engine.HandleTurn(ctx, "room-1", "7")
	require.NoError(t, err)
	assert.Equal(t, flow.CapVerifyOTP, result.Capability)
	assert.Equal(t, string(models.StatusNeedOTP), result.ToStatus)

	result, err = f.engine.HandleTurn(ctx, "room-1", "007")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusAuthenticated), result.ToStatus)

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusAuthenticated, got.Status)
	assert.Empty(t, got.OTPExpected)
	assert.True(t, got.VerifiedAt.Equal(f.now))
	assert.Equal(t, "tok-1", got.AuthToken)
}

func TestHandleTurn_OTPSuccessRunsPendingLookup(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedOTP
	sess.Tenant = "fusion"
	sess.EmployeeNumber = "E-42"
	sess.OTPExpected = "123456"
	sess.AuthToken = "tok-1"
	sess.Pending = models.IntentLoanLookup
	require.NoError(t, f.store.Put(ctx, sess))

	// The generation call fails, so rendering takes the deterministic
	// fallback path.
	f.provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)
	f.tenantAPI.On("FetchLoanInfo", mock.Anything, "fusion", "E-42", "tok-1").
		Return(loanDataFromJSON(t, `{"amountDue": 50000}`), nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "123456")

	require.NoError(t, err)
	texts := replyTexts(result)
	require.GreaterOrEqual(t, len(texts), 3)
	assert.Contains(t, texts[0], "verified")
	assert.Contains(t, texts[1], "One moment")
	assert.Contains(t, texts[2], "50000.00")

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusAuthenticated, got.Status)
	assert.Equal(t, models.IntentNone, got.Pending)
}

func TestHandleTurn_LoanKeywordOnFreshRoom_StashesIntent(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	result, err := f.engine.HandleTurn(ctx, "room-1", "I want to check my loan")

	require.NoError(t, err)
	assert.Equal(t, flow.CapLoanLookup, result.Capability)

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedTenant, got.Status)
	assert.Equal(t, models.IntentLoanLookup, got.Pending)

	f.tenantAPI.AssertNotCalled(t, "FetchLoanInfo",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_AuthenticatedPendingResumesImmediately(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusAuthenticated
	sess.Tenant = "fusion"
	sess.EmployeeNumber = "E-42"
	sess.AuthToken = "tok-1"
	sess.Pending = models.IntentLoanLookup
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)
	f.tenantAPI.On("FetchLoanInfo", mock.Anything, "fusion", "E-42", "tok-1").
		Return(loanDataFromJSON(t, `{"loanStatus": "active"}`), nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "go ahead")

	require.NoError(t, err)
	assert.Equal(t, flow.CapLoanLookup, result.Capability)

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.IntentNone, got.Pending)
}

func TestHandleTurn_LoanFetchUnauthorized_ResetsPreservingIntent(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusAuthenticated
	sess.Tenant = "fusion"
	sess.EmployeeNumber = "E-42"
	sess.AuthToken = "stale"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)
	f.tenantAPI.On("FetchLoanInfo", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.LoanData{}, domainerrors.NewUpstreamDataError(domainerrors.KindUnauthorized, nil))

	result, err := f.engine.HandleTurn(ctx, "room-1", "show my loan")

	require.NoError(t, err)
	texts := replyTexts(result)
	assert.Contains(t, texts[len(texts)-1], "verify you again")

	// Tenant, credentials and token are discarded; the request survives.
	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedTenant, got.Status)
	assert.Empty(t, got.Tenant)
	assert.Empty(t, got.AuthToken)
	assert.Equal(t, models.IntentLoanLookup, got.Pending)
}

func TestHandleTurn_EmptyLoanData_FixedMessage(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusAuthenticated
	sess.Tenant = "fusion"
	sess.EmployeeNumber = "E-42"
	sess.AuthToken = "tok-1"
	require.NoError(t, f.store.Put(ctx, sess))

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)
	f.tenantAPI.On("FetchLoanInfo", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.LoanData{}, nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "my loan please")

	require.NoError(t, err)
	texts := replyTexts(result)
	assert.Contains(t, texts[len(texts)-1], "couldn't find an active loan")
}

func TestHandleTurn_ResetWipesState(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedOTP
	sess.Tenant = "fusion"
	sess.OTPExpected = "123456"
	sess.Pending = models.IntentLoanLookup
	require.NoError(t, f.store.Put(ctx, sess))

	result, err := f.engine.HandleTurn(ctx, "room-1", "let's start over")

	require.NoError(t, err)
	assert.Equal(t, flow.CapReset, result.Capability)

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedTenant, got.Status)
	assert.Empty(t, got.Tenant)
	assert.Empty(t, got.OTPExpected)
	// An explicit reset drops the stashed intent too.
	assert.Equal(t, models.IntentNone, got.Pending)
}

func TestHandleTurn_ExpiredSessionForceResetBeforeRouting(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedOTP
	sess.OTPExpected = "123456"
	require.NoError(t, f.store.Put(ctx, sess))

	// A passcode submitted 16 minutes later arrives past the OTP threshold.
	f.now = f.now.Add(16 * time.Minute)

	f.provider.On("Complete", mock.Anything, mock.Anything).Return("UNKNOWN", nil)

	result, err := f.engine.HandleTurn(ctx, "room-1", "123456")

	require.NoError(t, err)
	// The stale passcode entry was not compared; the flow restarted.
	assert.NotEqual(t, string(models.StatusAuthenticated), result.ToStatus)
	texts := replyTexts(result)
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0], "restarted")

	got := f.store.Get(ctx, "room-1")
	assert.Equal(t, models.StatusNeedTenant, got.Status)
	assert.True(t, got.TimedOut)
	assert.Empty(t, got.OTPExpected)
}

func TestHandleTurn_StorageFailure_GenericRetry(t *testing.T) {
	store := &mocks.MockStore{}
	sess := models.NewSession("room-1")
	sess.Status = models.StatusNeedOTP
	sess.OTPExpected = "123456"
	sess.Stored = true
	sess.UpdatedAt = time.Now().UTC()
	store.On("Get", mock.Anything, "room-1").Return(sess)
	store.On("Put", mock.Anything, mock.Anything).
		Return(domainerrors.NewStorageError("put", assert.AnError))

	engine, err := flow.NewEngine(&flow.EngineConfig{
		Store:     store,
		Resolver:  tenantdir.NewResolver(tenantdir.NewDirectory()),
		Extractor: nlg.NewExtractor(&mocks.MockProvider{}),
		TenantAPI: &mocks.MockTenantAPIClient{},
		Renderer:  loans.NewRenderer(&mocks.MockProvider{}),
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	result, err := engine.HandleTurn(context.Background(), "room-1", "123456")

	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.Contains(t, result.Replies[0].Text, "again in a moment")
	// No phase transition is claimed.
	assert.Equal(t, string(models.StatusNeedOTP), result.ToStatus)
}

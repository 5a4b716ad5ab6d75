package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coopassist/verify-service/internal/core/docdb"
	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/pkg/redact"
	"github.com/coopassist/verify-service/internal/services/loans"
	"github.com/coopassist/verify-service/internal/services/nlg"
	"github.com/coopassist/verify-service/internal/services/session"
	"github.com/coopassist/verify-service/internal/services/tenantapi"
	"github.com/coopassist/verify-service/internal/services/tenantdir"
)

// Engine processes inbound messages one turn at a time. Turns for different
// rooms run concurrently with no shared mutable state beyond the session
// store; turns for the same room are not serialized, so concurrent writes
// can clobber each other. That race is inherited from the store's
// read-modify-write pattern and is documented, not fixed.
type Engine struct {
	store       session.Store
	resolver    *tenantdir.Resolver
	extractor   *nlg.Extractor
	tenantAPI   tenantapi.Client
	renderer    *loans.Renderer
	transcripts docdb.TranscriptsCollection
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// EngineConfig holds the configuration for the flow engine.
type EngineConfig struct {
	Store     session.Store
	Resolver  *tenantdir.Resolver
	Extractor *nlg.Extractor
	TenantAPI tenantapi.Client
	Renderer  *loans.Renderer
	// Transcripts is optional; nil disables conversation archiving.
	Transcripts docdb.TranscriptsCollection
	Logger      zerolog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
	// NewID overrides id generation, for tests.
	NewID func() string
}

// NewEngine creates a new flow engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("tenant resolver is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.TenantAPI == nil {
		return nil, fmt.Errorf("tenant API client is required")
	}
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("loan renderer is required")
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Engine{
		store:       cfg.Store,
		resolver:    cfg.Resolver,
		extractor:   cfg.Extractor,
		tenantAPI:   cfg.TenantAPI,
		renderer:    cfg.Renderer,
		transcripts: cfg.Transcripts,
		logger:      cfg.Logger,
		now:         now,
		newID:       newID,
	}, nil
}

// turn carries the mutable state of one message-handling pass.
type turn struct {
	ctx     context.Context
	engine  *Engine
	sess    *models.Session
	message string
	// secrets holds the session's secret values as of the start of the
	// turn, so archived message text can be scrubbed of them.
	secrets []string
	replies []string
}

// reply appends one outbound message.
func (t *turn) reply(text string) {
	t.replies = append(t.replies, text)
}

// persist writes next as the room's record. State is always persisted before
// the reply that announces it, so a retried message cannot observe a reply
// the store never saw. On write failure the turn degrades to a retry prompt
// and the in-memory session stays unchanged.
func (t *turn) persist(next *models.Session) bool {
	if err := t.engine.store.Put(t.ctx, next); err != nil {
		t.engine.logger.Error().Err(err).
			Str("room_id", next.RoomID).
			Msg("session write failed")
		t.reply(msgStorageRetry)
		return false
	}
	t.sess = next
	return true
}

// HandleTurn processes one inbound message and returns the replies to emit.
// It never returns an error for member-visible failures; those become
// apology replies. An error means the request itself was unusable.
func (e *Engine) HandleTurn(ctx context.Context, roomID, message string) (*Result, error) {
	if roomID == "" {
		return nil, domainerrors.NewValidationFailure("roomId", "is required")
	}

	sess := e.store.Get(ctx, roomID)
	if sess.LastError != "" {
		e.logger.Warn().Str("room_id", roomID).Str("error", sess.LastError).
			Msg("session read degraded to default")
	}
	fromStatus := string(sess.Status)

	t := &turn{
		ctx:     ctx,
		engine:  e,
		sess:    sess,
		message: message,
		secrets: []string{sess.OTPExpected, sess.AuthToken},
	}

	// Stale flows are force-reset before routing so an old phase's handler
	// never sees them.
	if session.IsExpired(sess, e.now()) {
		if !t.persist(sess.ResetFor(true)) {
			return e.finish(ctx, t, CapReset, fromStatus), nil
		}
		t.reply(msgTimedOut)
	}

	capability := Route(message, t.sess)
	e.logger.Debug().
		Str("room_id", roomID).
		Str("capability", string(capability)).
		Str("status", string(t.sess.Status)).
		Msg("routed turn")

	switch capability {
	case CapReset:
		t.handleReset()
	case CapVerifyOTP:
		t.handleVerifyOTP()
	case CapAuthenticate:
		t.handleAuthenticate()
	case CapLoanLookup:
		t.handleLoanLookup()
	default:
		t.handleGeneric()
	}

	return e.finish(ctx, t, capability, fromStatus), nil
}

// finish assembles the result and archives the turn best-effort.
func (e *Engine) finish(ctx context.Context, t *turn, capability Capability, fromStatus string) *Result {
	result := &Result{
		TurnID:     e.newID(),
		Capability: capability,
		FromStatus: fromStatus,
		ToStatus:   string(t.sess.Status),
	}
	for _, text := range t.replies {
		result.Replies = append(result.Replies, Reply{ID: e.newID(), Text: text})
	}

	e.archive(ctx, t.sess.RoomID, redact.String(t.message, t.secrets...), result)
	return result
}

// archive records the turn in the transcript store. The inbound text is
// scrubbed of the session's secrets first: a member who typed their passcode
// must not have it archived in plaintext. Failures are logged and swallowed;
// archiving never fails a turn.
func (e *Engine) archive(ctx context.Context, roomID, message string, result *Result) {
	if e.transcripts == nil {
		return
	}

	inbound := models.NewTranscriptEntry(e.newID(), roomID, result.TurnID, models.RoleMember, message)
	inbound.Routing = &models.RoutingRecord{
		Capability: string(result.Capability),
		FromStatus: result.FromStatus,
		ToStatus:   result.ToStatus,
	}
	entries := []*models.TranscriptEntry{inbound}
	for _, r := range result.Replies {
		entries = append(entries, models.NewTranscriptEntry(r.ID, roomID, result.TurnID, models.RoleAssistant, r.Text))
	}

	if err := e.transcripts.AddMany(ctx, entries); err != nil {
		e.logger.Warn().Err(err).Str("room_id", roomID).Msg("transcript archive failed")
	}
}

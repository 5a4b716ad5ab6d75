// Package sweeper runs the background pass that expires and purges stale
// verification sessions across all rooms.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/coopassist/verify-service/internal/services/session"
)

// Sweeper periodically walks every stored session, force-resets the ones
// whose phase has gone stale and deletes the ones idle past the purge
// horizon. Every dependency is injected; the sweep holds no ambient global
// state. Failures are logged and swallowed, never fatal: per-turn processing
// already self-heals stale sessions on the next visit, the sweep just keeps
// abandoned rooms from accumulating.
type Sweeper struct {
	store      session.Store
	logger     zerolog.Logger
	schedule   string
	purgeAfter time.Duration
	now        func() time.Time
	cron       *cron.Cron
}

// Config holds the configuration for the sweeper.
type Config struct {
	Store session.Store
	// Schedule is a cron expression; descriptors like "@hourly" work.
	Schedule string
	// PurgeAfter is the idle age past which non-authenticated records are
	// deleted outright instead of reset.
	PurgeAfter time.Duration
	Logger     zerolog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a sweeper.
func New(cfg *Config) (*Sweeper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "@hourly"
	}
	purgeAfter := cfg.PurgeAfter
	if purgeAfter == 0 {
		purgeAfter = 24 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Sweeper{
		store:      cfg.Store,
		logger:     cfg.Logger,
		schedule:   schedule,
		purgeAfter: purgeAfter,
		now:        now,
		cron:       cron.New(),
	}, nil
}

// Start schedules the sweep and begins running it.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("session sweep started")
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce performs a single sweep over every stored session.
func (s *Sweeper) RunOnce(ctx context.Context) {
	started := s.now()

	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("sweep: listing rooms failed")
		return
	}

	var reset, purged int
	for _, roomID := range rooms {
		sess := s.store.Get(ctx, roomID)
		if !sess.Stored || sess.Authenticated() {
			continue
		}

		switch {
		case started.Sub(sess.UpdatedAt) > s.purgeAfter:
			if err := s.store.Delete(ctx, roomID); err != nil {
				s.logger.Warn().Err(err).Str("room_id", roomID).Msg("sweep: purge failed")
				continue
			}
			purged++
		case session.IsExpired(sess, started):
			if err := s.store.Put(ctx, sess.ResetFor(true)); err != nil {
				s.logger.Warn().Err(err).Str("room_id", roomID).Msg("sweep: reset failed")
				continue
			}
			reset++
		}
	}

	s.logger.Info().
		Int("rooms", len(rooms)).
		Int("reset", reset).
		Int("purged", purged).
		Dur("took", s.now().Sub(started)).
		Msg("session sweep finished")
}

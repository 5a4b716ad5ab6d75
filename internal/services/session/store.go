// Package session provides the durable per-room verification state store and
// the expiry policy applied to it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coopassist/verify-service/internal/core/cache"
	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/pkg/encryption"
)

// keyPrefix namespaces session records in the store.
const keyPrefix = "authstate:"

// Store provides read / whole-record-replace access to per-room sessions.
//
// Get never fails the caller: on a storage error it returns the safe default
// NEED_TENANT session annotated with the error. Put returns a STORAGE_ERROR
// domain error on write failure; callers decide whether to retry or degrade.
//
// Read-modify-write through this interface is not atomic. Two concurrent
// turns for the same room can race and one write can clobber the other; this
// is an accepted limitation of the underlying store's capability.
type Store interface {
	// Get returns the session for a room, or the default NEED_TENANT session
	// when no record exists or the record cannot be read.
	Get(ctx context.Context, roomID string) *models.Session

	// Put persists a full replacement of the room's record, stamping
	// UpdatedAt with the current time.
	Put(ctx context.Context, sess *models.Session) error

	// Delete removes a room's record. Used by the background sweep only.
	Delete(ctx context.Context, roomID string) error

	// Rooms lists every room id with a stored record. Sweep-only; not on any
	// per-turn path.
	Rooms(ctx context.Context) ([]string, error)
}

// store implements Store over the cache client, encrypting records at rest
// because they carry upstream secrets.
type store struct {
	cacheClient cache.Client
	encryptor   encryption.Encryptor
	retention   time.Duration
	now         func() time.Time
}

// Config holds the configuration for the session store.
type Config struct {
	CacheClient cache.Client
	Encryptor   encryption.Encryptor
	// Retention is the store-level TTL backstop. Zero means the cache
	// client's default.
	Retention time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewStore creates a new session store.
func NewStore(cfg *Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &store{
		cacheClient: cfg.CacheClient,
		encryptor:   cfg.Encryptor,
		retention:   cfg.Retention,
		now:         now,
	}, nil
}

// Get retrieves a session. A room with no record yields the default session
// (not persisted); an unreadable record degrades to the default annotated
// with the failure.
func (s *store) Get(ctx context.Context, roomID string) *models.Session {
	encrypted, err := s.cacheClient.Get(ctx, Key(roomID))
	if err != nil {
		sess := models.NewSession(roomID)
		sess.LastError = fmt.Sprintf("state read failed: %v", err)
		return sess
	}
	if encrypted == nil {
		return models.NewSession(roomID)
	}

	// A record that cannot be decrypted or decoded (key rotation, corrupt
	// write) is dropped rather than surfaced; the member restarts the flow.
	decrypted, err := s.encryptor.Decrypt(string(encrypted))
	if err != nil {
		_, _ = s.cacheClient.Delete(ctx, Key(roomID))
		return models.NewSession(roomID)
	}

	var sess models.Session
	if err := json.Unmarshal(decrypted, &sess); err != nil {
		_, _ = s.cacheClient.Delete(ctx, Key(roomID))
		return models.NewSession(roomID)
	}

	sess.RoomID = roomID
	sess.Stored = true
	return &sess
}

// Put persists a full replacement of the record.
func (s *store) Put(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.RoomID == "" {
		return domainerrors.NewStorageError("put", fmt.Errorf("session with room id is required"))
	}

	sess.UpdatedAt = s.now()

	data, err := json.Marshal(sess)
	if err != nil {
		return domainerrors.NewStorageError("put", fmt.Errorf("marshal session: %w", err))
	}

	encrypted, err := s.encryptor.Encrypt(data)
	if err != nil {
		return domainerrors.NewStorageError("put", fmt.Errorf("encrypt session: %w", err))
	}

	if err := s.cacheClient.Set(ctx, Key(sess.RoomID), []byte(encrypted), s.retention); err != nil {
		return domainerrors.NewStorageError("put", err)
	}

	sess.Stored = true
	return nil
}

// Delete removes a room's record.
func (s *store) Delete(ctx context.Context, roomID string) error {
	if _, err := s.cacheClient.Delete(ctx, Key(roomID)); err != nil {
		return domainerrors.NewStorageError("delete", err)
	}
	return nil
}

// Rooms lists every room id with a stored record.
func (s *store) Rooms(ctx context.Context) ([]string, error) {
	keys, err := s.cacheClient.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return nil, domainerrors.NewStorageError("scan", err)
	}
	rooms := make([]string, 0, len(keys))
	for _, k := range keys {
		rooms = append(rooms, strings.TrimPrefix(k, keyPrefix))
	}
	return rooms, nil
}

// Key returns the store key for a room.
func Key(roomID string) string {
	return keyPrefix + roomID
}

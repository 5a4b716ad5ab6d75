package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/core/docdb"
	"github.com/coopassist/verify-service/internal/domain/models"
)

// MockTranscripts is a mock implementation of docdb.TranscriptsCollection.
type MockTranscripts struct {
	mock.Mock
}

// Add inserts one transcript entry.
func (m *MockTranscripts) Add(ctx context.Context, entry *models.TranscriptEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// AddMany inserts several entries in one call.
func (m *MockTranscripts) AddMany(ctx context.Context, entries []*models.TranscriptEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// List retrieves entries for a room.
func (m *MockTranscripts) List(ctx context.Context, opts *docdb.ListTranscriptOptions) ([]*models.TranscriptEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TranscriptEntry), args.Error(1)
}

// CountByRoom returns the number of archived entries for a room.
func (m *MockTranscripts) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

// EnsureIndexes creates the collection indexes.
func (m *MockTranscripts) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

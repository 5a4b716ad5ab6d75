package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// MockStore is a mock implementation of session.Store.
type MockStore struct {
	mock.Mock
}

// Get returns the session for a room.
func (m *MockStore) Get(ctx context.Context, roomID string) *models.Session {
	args := m.Called(ctx, roomID)
	return args.Get(0).(*models.Session)
}

// Put persists a full replacement of the room's record.
func (m *MockStore) Put(ctx context.Context, sess *models.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

// Delete removes a room's record.
func (m *MockStore) Delete(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// Rooms lists every room id with a stored record.
func (m *MockStore) Rooms(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/core/docdb"
)

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
}

// Transcripts returns the transcript collection.
func (m *MockDocDBClient) Transcripts() docdb.TranscriptsCollection {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(docdb.TranscriptsCollection)
}

// Ping verifies the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// EnsureIndexes creates all necessary indexes.
func (m *MockDocDBClient) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

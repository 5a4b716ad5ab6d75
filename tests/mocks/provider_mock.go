package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/services/nlg"
)

// MockProvider is a mock implementation of nlg.Provider.
type MockProvider struct {
	mock.Mock
}

// Complete returns the canned completion.
func (m *MockProvider) Complete(ctx context.Context, req nlg.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

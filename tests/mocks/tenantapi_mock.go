package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/tenantapi"
)

// MockTenantAPIClient is a mock implementation of tenantapi.Client.
type MockTenantAPIClient struct {
	mock.Mock
}

// Authenticate verifies a member's credentials with their cooperative.
func (m *MockTenantAPIClient) Authenticate(ctx context.Context, email, employeeNumber, tenant string) (*tenantapi.AuthResult, error) {
	args := m.Called(ctx, email, employeeNumber, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantapi.AuthResult), args.Error(1)
}

// FetchLoanInfo retrieves the member's loan records.
func (m *MockTenantAPIClient) FetchLoanInfo(ctx context.Context, tenant, employeeNumber, token string) (models.LoanData, error) {
	args := m.Called(ctx, tenant, employeeNumber, token)
	if args.Get(0) == nil {
		return models.LoanData{}, args.Error(1)
	}
	return args.Get(0).(models.LoanData), args.Error(1)
}

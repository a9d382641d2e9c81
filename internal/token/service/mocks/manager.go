// Package mocks provides hand-written test doubles for the token service.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tokenDomain "github.com/allisson/cardpay/internal/token/domain"
)

// MockManager is a mock implementation of service.Manager.
type MockManager struct {
	mock.Mock
}

// IssueOffline mocks the IssueOffline method of Manager.
func (m *MockManager) IssueOffline(
	ctx context.Context,
	cardCredential, userID string,
) (string, string, error) {
	args := m.Called(ctx, cardCredential, userID)
	return args.String(0), args.String(1), args.Error(2)
}

// IssueOnline mocks the IssueOnline method of Manager.
func (m *MockManager) IssueOnline(
	ctx context.Context,
	merchantName string,
	amount int64,
	cardCredential, userID string,
) (string, string, error) {
	args := m.Called(ctx, merchantName, amount, cardCredential, userID)
	return args.String(0), args.String(1), args.Error(2)
}

// IssueQR mocks the IssueQR method of Manager.
func (m *MockManager) IssueQR(
	ctx context.Context,
	merchantName string,
	amount int64,
) (string, string, error) {
	args := m.Called(ctx, merchantName, amount)
	return args.String(0), args.String(1), args.Error(2)
}

// Validate mocks the Validate method of Manager.
func (m *MockManager) Validate(
	ctx context.Context,
	token string,
	variant tokenDomain.Variant,
) (*tokenDomain.Payload, error) {
	args := m.Called(ctx, token, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.Payload), args.Error(1)
}

// ResolveAlias mocks the ResolveAlias method of Manager.
func (m *MockManager) ResolveAlias(ctx context.Context, alias string) (string, error) {
	args := m.Called(ctx, alias)
	return args.String(0), args.Error(1)
}

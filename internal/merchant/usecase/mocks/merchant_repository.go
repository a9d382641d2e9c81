// Package mocks provides mock implementations for testing merchant classification.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	merchantDomain "github.com/allisson/cardpay/internal/merchant/domain"
)

// MockMerchantRepository is a mock implementation of MerchantRepository for testing.
type MockMerchantRepository struct {
	mock.Mock
}

// ListAll mocks the ListAll method of MerchantRepository.
func (m *MockMerchantRepository) ListAll(ctx context.Context) ([]*merchantDomain.Merchant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*merchantDomain.Merchant), args.Error(1)
}

// GetByName mocks the GetByName method of MerchantRepository.
func (m *MockMerchantRepository) GetByName(
	ctx context.Context,
	name string,
) (*merchantDomain.Merchant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantDomain.Merchant), args.Error(1)
}

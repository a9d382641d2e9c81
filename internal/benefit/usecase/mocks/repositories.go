// Package mocks provides mock implementations for testing benefit selection.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
)

// MockCardRepository is a mock implementation of CardRepository for testing.
type MockCardRepository struct {
	mock.Mock
}

// ListActiveByUser mocks the ListActiveByUser method of CardRepository.
func (m *MockCardRepository) ListActiveByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*benefitDomain.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*benefitDomain.Card), args.Error(1)
}

// GetByUserAndCredential mocks the GetByUserAndCredential method of CardRepository.
func (m *MockCardRepository) GetByUserAndCredential(
	ctx context.Context,
	userID uuid.UUID,
	credential string,
) (*benefitDomain.Card, error) {
	args := m.Called(ctx, userID, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*benefitDomain.Card), args.Error(1)
}

// MockRuleRepository is a mock implementation of RuleRepository for testing.
type MockRuleRepository struct {
	mock.Mock
}

// ListByCardTemplate mocks the ListByCardTemplate method of RuleRepository.
func (m *MockRuleRepository) ListByCardTemplate(
	ctx context.Context,
	cardTemplateID uuid.UUID,
) ([]*benefitDomain.Rule, error) {
	args := m.Called(ctx, cardTemplateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*benefitDomain.Rule), args.Error(1)
}

// MockUsageRepository is a mock implementation of UsageRepository for testing.
type MockUsageRepository struct {
	mock.Mock
}

// GetOrDefault mocks the GetOrDefault method of UsageRepository.
func (m *MockUsageRepository) GetOrDefault(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
) (*benefitDomain.UsageRecord, error) {
	args := m.Called(ctx, userID, benefitID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*benefitDomain.UsageRecord), args.Error(1)
}

// ApplyUsage mocks the ApplyUsage method of UsageRepository.
func (m *MockUsageRepository) ApplyUsage(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
	amount int64,
) error {
	args := m.Called(ctx, userID, benefitID, year, month, amount)
	return args.Error(0)
}

// MockSelector is a mock implementation of Selector for testing callers of
// benefit selection.
type MockSelector struct {
	mock.Mock
}

// BestCandidate mocks the BestCandidate method of Selector.
func (m *MockSelector) BestCandidate(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	args := m.Called(ctx, userID, amount, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*benefitDomain.Candidate), args.Error(1)
}

// BestCandidateForCard mocks the BestCandidateForCard method of Selector.
func (m *MockSelector) BestCandidateForCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	args := m.Called(ctx, userID, cardID, amount, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*benefitDomain.Candidate), args.Error(1)
}

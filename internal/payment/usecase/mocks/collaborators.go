// Package mocks provides mock implementations for testing the payment
// orchestrator.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/issuer"
	"github.com/allisson/cardpay/internal/notify"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
	tokenDomain "github.com/allisson/cardpay/internal/token/domain"
)

// MockTokenManager is a mock implementation of the token Manager for testing.
type MockTokenManager struct {
	mock.Mock
}

// IssueOffline mocks the IssueOffline method of Manager.
func (m *MockTokenManager) IssueOffline(
	ctx context.Context,
	cardCredential, userID string,
) (string, string, error) {
	args := m.Called(ctx, cardCredential, userID)
	return args.String(0), args.String(1), args.Error(2)
}

// IssueOnline mocks the IssueOnline method of Manager.
func (m *MockTokenManager) IssueOnline(
	ctx context.Context,
	merchantName string,
	amount int64,
	cardCredential, userID string,
) (string, string, error) {
	args := m.Called(ctx, merchantName, amount, cardCredential, userID)
	return args.String(0), args.String(1), args.Error(2)
}

// IssueQR mocks the IssueQR method of Manager.
func (m *MockTokenManager) IssueQR(
	ctx context.Context,
	merchantName string,
	amount int64,
) (string, string, error) {
	args := m.Called(ctx, merchantName, amount)
	return args.String(0), args.String(1), args.Error(2)
}

// Validate mocks the Validate method of Manager.
func (m *MockTokenManager) Validate(
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
func (m *MockTokenManager) ResolveAlias(ctx context.Context, alias string) (string, error) {
	args := m.Called(ctx, alias)
	return args.String(0), args.Error(1)
}

// MockClassifier is a mock implementation of the merchant Classifier for testing.
type MockClassifier struct {
	mock.Mock
}

// Classify mocks the Classify method of Classifier.
func (m *MockClassifier) Classify(
	ctx context.Context,
	name string,
) (benefitDomain.Classification, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(benefitDomain.Classification), args.Error(1)
}

// Refresh mocks the Refresh method of Classifier.
func (m *MockClassifier) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Start mocks the Start method of Classifier.
func (m *MockClassifier) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockIssuerClient is a mock implementation of the issuer Client for testing.
type MockIssuerClient struct {
	mock.Mock
}

// Submit mocks the Submit method of Client.
func (m *MockIssuerClient) Submit(
	ctx context.Context,
	req *issuer.TransactionRequest,
) (*issuer.TransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuer.TransactionResponse), args.Error(1)
}

// MockReportClient is a mock implementation of the report Client for testing.
type MockReportClient struct {
	mock.Mock
}

// RefreshMonthlySummary mocks the RefreshMonthlySummary method of Client.
func (m *MockReportClient) RefreshMonthlySummary(
	ctx context.Context,
	userID uuid.UUID,
	year int,
	month time.Month,
) {
	m.Called(ctx, userID, year, month)
}

// MockComparisonRepository is a mock implementation of ComparisonRepository for testing.
type MockComparisonRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of ComparisonRepository.
func (m *MockComparisonRepository) Upsert(
	ctx context.Context,
	comparison *paymentDomain.Comparison,
) error {
	args := m.Called(ctx, comparison)
	return args.Error(0)
}

// MockNotifier is a mock implementation of the Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

// Subscribe mocks the Subscribe method of Notifier.
func (m *MockNotifier) Subscribe(userID uuid.UUID) <-chan notify.Event {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(<-chan notify.Event)
}

// Unsubscribe mocks the Unsubscribe method of Notifier.
func (m *MockNotifier) Unsubscribe(userID uuid.UUID, ch <-chan notify.Event) {
	m.Called(userID, ch)
}

// Publish mocks the Publish method of Notifier.
func (m *MockNotifier) Publish(event notify.Event) {
	m.Called(event)
}

// MockOrchestrator is a mock implementation of Orchestrator for testing HTTP
// handlers.
type MockOrchestrator struct {
	mock.Mock
}

// Pay mocks the Pay method of Orchestrator.
func (m *MockOrchestrator) Pay(
	ctx context.Context,
	request *paymentDomain.Request,
) (*paymentDomain.Result, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Result), args.Error(1)
}

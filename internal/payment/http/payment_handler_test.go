package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	apperrors "github.com/allisson/cardpay/internal/errors"
	"github.com/allisson/cardpay/internal/notify"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
	"github.com/allisson/cardpay/internal/payment/http/dto"
	paymentMocks "github.com/allisson/cardpay/internal/payment/usecase/mocks"
)

// setupTestPaymentHandler creates a test handler with a mocked orchestrator
// and a real in-process notifier.
func setupTestPaymentHandler(t *testing.T) (*PaymentHandler, *paymentMocks.MockOrchestrator, notify.Notifier) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockOrchestrator := new(paymentMocks.MockOrchestrator)
	notifier := notify.NewNotifier()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewPaymentHandler(mockOrchestrator, notifier, 50*time.Millisecond, logger)

	return handler, mockOrchestrator, notifier
}

func TestPaymentHandler_SubmitHandler(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_ReturnsResultWithBenefits", func(t *testing.T) {
		handler, mockOrchestrator, _ := setupTestPaymentHandler(t)

		cardID := uuid.Must(uuid.NewV7())
		applied := &benefitDomain.Candidate{
			CardID:         cardID,
			CardCredential: "credential-1",
			BenefitID:      uuid.Must(uuid.NewV7()),
			BenefitType:    benefitDomain.Discount,
			Amount:         500,
		}
		result := &paymentDomain.Result{
			Approved:       true,
			ApprovalCode:   "APPROVAL-123",
			SettledAt:      time.Now().UTC(),
			CardID:         cardID,
			CardCredential: "credential-1",
			Applied:        applied,
			Recommended:    applied,
		}

		mockOrchestrator.On("Pay", mock.Anything, mock.MatchedBy(func(req *paymentDomain.Request) bool {
			return req.UserID == userID &&
				req.Token == "full-token" &&
				req.MerchantName == "coffee house" &&
				req.Amount == 20000
		})).Return(result, nil)

		request := dto.SubmitPaymentRequest{
			UserID:       userID.String(),
			Token:        "full-token",
			MerchantName: "coffee house",
			Amount:       20000,
		}
		c, w := createTestContext(http.MethodPost, "/v1/payments", request)

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.PaymentResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.True(t, response.Approved)
		assert.Equal(t, "APPROVAL-123", response.ApprovalCode)
		assert.Equal(t, cardID.String(), response.CardID)
		require.NotNil(t, response.Applied)
		assert.Equal(t, int64(500), response.Applied.Amount)
		assert.Equal(t, "DISCOUNT", response.Applied.BenefitType)
	})

	t.Run("Success_EmptyTokenMeansBestCard", func(t *testing.T) {
		handler, mockOrchestrator, _ := setupTestPaymentHandler(t)

		result := &paymentDomain.Result{
			Approved:     true,
			ApprovalCode: "APPROVAL-456",
			SettledAt:    time.Now().UTC(),
			CardID:       uuid.Must(uuid.NewV7()),
		}

		mockOrchestrator.On("Pay", mock.Anything, mock.MatchedBy(func(req *paymentDomain.Request) bool {
			return req.BestCard()
		})).Return(result, nil)

		request := dto.SubmitPaymentRequest{
			UserID:       userID.String(),
			MerchantName: "coffee house",
			Amount:       20000,
		}
		c, w := createTestContext(http.MethodPost, "/v1/payments", request)

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.PaymentResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Nil(t, response.Applied)
		assert.Nil(t, response.Recommended)
	})

	t.Run("Error_InvalidTokenIsOpaque401", func(t *testing.T) {
		handler, mockOrchestrator, _ := setupTestPaymentHandler(t)

		mockOrchestrator.On("Pay", mock.Anything, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrTokenInvalid, "signature mismatch"))

		request := dto.SubmitPaymentRequest{
			UserID:       userID.String(),
			Token:        "tampered",
			MerchantName: "coffee house",
			Amount:       20000,
		}
		c, w := createTestContext(http.MethodPost, "/v1/payments", request)

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "signature")
	})

	t.Run("Error_IssuerRejection", func(t *testing.T) {
		handler, mockOrchestrator, _ := setupTestPaymentHandler(t)

		mockOrchestrator.On("Pay", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrRejected)

		request := dto.SubmitPaymentRequest{
			UserID:       userID.String(),
			MerchantName: "coffee house",
			Amount:       20000,
		}
		c, w := createTestContext(http.MethodPost, "/v1/payments", request)

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("Error_ValidationFailure", func(t *testing.T) {
		handler, mockOrchestrator, _ := setupTestPaymentHandler(t)

		request := dto.SubmitPaymentRequest{
			UserID:       "not-a-uuid",
			MerchantName: "coffee house",
			Amount:       20000,
		}
		c, w := createTestContext(http.MethodPost, "/v1/payments", request)

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockOrchestrator.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, _, _ := setupTestPaymentHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/payments", "not-json")

		handler.SubmitHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_NotificationsHandler(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())

	t.Run("Success_DeliversPublishedEvent", func(t *testing.T) {
		handler, _, notifier := setupTestPaymentHandler(t)

		event := notify.Event{
			UserID:        userID,
			Approved:      true,
			Amount:        20000,
			BenefitAmount: 500,
			MerchantName:  "coffee house",
			OccurredAt:    time.Now().UTC(),
		}
		go func() {
			// Give the handler time to subscribe before publishing.
			time.Sleep(10 * time.Millisecond)
			notifier.Publish(event)
		}()

		c, w := createTestContext(http.MethodGet, "/v1/payments/notifications/"+userID.String(), nil)
		c.Params = gin.Params{{Key: "user_id", Value: userID.String()}}

		handler.NotificationsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.NotificationResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), response.UserID)
		assert.True(t, response.Approved)
		assert.Equal(t, int64(500), response.BenefitAmount)
	})

	t.Run("Success_TimeoutReturnsNoContent", func(t *testing.T) {
		handler, _, _ := setupTestPaymentHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/payments/notifications/"+userID.String(), nil)
		c.Params = gin.Params{{Key: "user_id", Value: userID.String()}}

		handler.NotificationsHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_InvalidUserID", func(t *testing.T) {
		handler, _, _ := setupTestPaymentHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/payments/notifications/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "user_id", Value: "not-a-uuid"}}

		handler.NotificationsHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

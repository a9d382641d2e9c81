// Package http provides HTTP handlers for payment submission and
// payment-status notifications.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/cardpay/internal/errors"
	"github.com/allisson/cardpay/internal/httputil"
	"github.com/allisson/cardpay/internal/notify"
	"github.com/allisson/cardpay/internal/payment/http/dto"
	paymentUsecase "github.com/allisson/cardpay/internal/payment/usecase"
	customValidation "github.com/allisson/cardpay/internal/validation"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	orchestrator paymentUsecase.Orchestrator
	notifier     notify.Notifier
	waitTimeout  time.Duration
	logger       *slog.Logger
}

// NewPaymentHandler creates a new payment handler with required dependencies.
// waitTimeout caps how long the notification long-poll holds a connection.
func NewPaymentHandler(
	orchestrator paymentUsecase.Orchestrator,
	notifier notify.Notifier,
	waitTimeout time.Duration,
	logger *slog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		orchestrator: orchestrator,
		notifier:     notifier,
		waitTimeout:  waitTimeout,
		logger:       logger,
	}
}

// SubmitHandler runs one payment attempt.
// POST /v1/payments
// Returns 201 Created with the settlement outcome, the applied benefit and
// the recommended benefit.
func (h *PaymentHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitPaymentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.orchestrator.Pay(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapResultToPaymentResponse(result))
}

// NotificationsHandler long-polls for one advisory payment-status event.
// GET /v1/payments/notifications/:user_id
// Registering replaces any previous subscriber for the user. Returns 200 OK
// with the event, or 204 No Content when the wait times out or the client
// goes away. Notifications are advisory; a missed event never affects
// payment correctness.
func (h *PaymentHandler) NotificationsHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "user_id must be a valid UUID"),
			h.logger)
		return
	}

	ch := h.notifier.Subscribe(userID)
	defer h.notifier.Unsubscribe(userID, ch)

	timer := time.NewTimer(h.waitTimeout)
	defer timer.Stop()

	select {
	case event, ok := <-ch:
		if !ok {
			// A newer subscriber for the same user replaced this one.
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, dto.MapEventToNotificationResponse(event))
	case <-timer.C:
		c.Status(http.StatusNoContent)
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	}
}

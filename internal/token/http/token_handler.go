// Package http provides HTTP handlers for payment token issuance.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	benefitUsecase "github.com/allisson/cardpay/internal/benefit/usecase"
	apperrors "github.com/allisson/cardpay/internal/errors"
	"github.com/allisson/cardpay/internal/httputil"
	"github.com/allisson/cardpay/internal/token/http/dto"
	tokenService "github.com/allisson/cardpay/internal/token/service"
	customValidation "github.com/allisson/cardpay/internal/validation"
)

// TokenHandler handles HTTP requests for token issuance.
// Card-bound variants resolve the card through the card repository so the
// permanent credential never travels in a request body.
type TokenHandler struct {
	manager    tokenService.Manager
	cardRepo   benefitUsecase.CardRepository
	expiration time.Duration
	logger     *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	manager tokenService.Manager,
	cardRepo benefitUsecase.CardRepository,
	expiration time.Duration,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		manager:    manager,
		cardRepo:   cardRepo,
		expiration: expiration,
		logger:     logger,
	}
}

// IssueOfflineHandler issues an offline point-of-sale token for a user's card.
// POST /v1/tokens/offline
// Returns 201 Created with the token, its short alias and the validity window.
func (h *TokenHandler) IssueOfflineHandler(c *gin.Context) {
	var req dto.IssueOfflineTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card, err := h.lookupCard(c.Request.Context(), req.UserID, req.CardID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, alias, err := h.manager.IssueOffline(c.Request.Context(), card.Credential, req.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTokenResponse(token, alias, h.expiresIn()))
}

// IssueOnlineHandler issues an online token bound to a merchant and amount.
// POST /v1/tokens/online
// Returns 201 Created with the token, its short alias and the validity window.
func (h *TokenHandler) IssueOnlineHandler(c *gin.Context) {
	var req dto.IssueOnlineTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card, err := h.lookupCard(c.Request.Context(), req.UserID, req.CardID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	token, alias, err := h.manager.IssueOnline(
		c.Request.Context(),
		req.MerchantName,
		req.Amount,
		card.Credential,
		req.UserID,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTokenResponse(token, alias, h.expiresIn()))
}

// IssueQRHandler issues a merchant-side QR token with no card binding.
// POST /v1/tokens/qr
// Returns 201 Created with the token, its short alias and the validity window.
func (h *TokenHandler) IssueQRHandler(c *gin.Context) {
	var req dto.IssueQRTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, alias, err := h.manager.IssueQR(c.Request.Context(), req.MerchantName, req.Amount)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTokenResponse(token, alias, h.expiresIn()))
}

// lookupCard resolves a card the user actually holds. Suspended and revoked
// cards cannot issue tokens, so only the active set is searched.
func (h *TokenHandler) lookupCard(
	ctx context.Context,
	userIDRaw, cardIDRaw string,
) (*benefitDomain.Card, error) {
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "user_id must be a valid UUID")
	}
	cardID, err := uuid.Parse(cardIDRaw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "card_id must be a valid UUID")
	}

	cards, err := h.cardRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		if card.ID == cardID {
			return card, nil
		}
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "card not found for user")
}

func (h *TokenHandler) expiresIn() int {
	return int(h.expiration.Seconds())
}

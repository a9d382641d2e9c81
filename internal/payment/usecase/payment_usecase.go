package usecase

import (
	"context"
	"log/slog"
	"time"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	benefitUsecase "github.com/allisson/cardpay/internal/benefit/usecase"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
	"github.com/allisson/cardpay/internal/issuer"
	merchantUsecase "github.com/allisson/cardpay/internal/merchant/usecase"
	"github.com/allisson/cardpay/internal/notify"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
	"github.com/allisson/cardpay/internal/report"
	tokenDomain "github.com/allisson/cardpay/internal/token/domain"
	tokenService "github.com/allisson/cardpay/internal/token/service"
)

// orchestrator implements Orchestrator.
type orchestrator struct {
	tokens         tokenService.Manager
	classifier     merchantUsecase.Classifier
	selector       benefitUsecase.Selector
	cardRepo       benefitUsecase.CardRepository
	usageRepo      benefitUsecase.UsageRepository
	comparisonRepo ComparisonRepository
	issuerClient   issuer.Client
	reportClient   report.Client
	notifier       notify.Notifier
	txManager      database.TxManager
	logger         *slog.Logger
	now            func() time.Time
}

// NewOrchestrator creates the payment orchestrator.
func NewOrchestrator(
	tokens tokenService.Manager,
	classifier merchantUsecase.Classifier,
	selector benefitUsecase.Selector,
	cardRepo benefitUsecase.CardRepository,
	usageRepo benefitUsecase.UsageRepository,
	comparisonRepo ComparisonRepository,
	issuerClient issuer.Client,
	reportClient report.Client,
	notifier notify.Notifier,
	txManager database.TxManager,
	logger *slog.Logger,
) Orchestrator {
	return &orchestrator{
		tokens:         tokens,
		classifier:     classifier,
		selector:       selector,
		cardRepo:       cardRepo,
		usageRepo:      usageRepo,
		comparisonRepo: comparisonRepo,
		issuerClient:   issuerClient,
		reportClient:   reportClient,
		notifier:       notifier,
		txManager:      txManager,
		logger:         logger,
		now:            time.Now,
	}
}

// Pay runs one payment attempt. The recommended candidate is always computed
// so the comparison record can show what the user could have saved; the
// applied candidate comes from the presented card when a token is given.
func (o *orchestrator) Pay(
	ctx context.Context,
	request *paymentDomain.Request,
) (*paymentDomain.Result, error) {
	class, err := o.classifier.Classify(ctx, request.MerchantName)
	if err != nil {
		return nil, err
	}

	recommended, err := o.selector.BestCandidate(ctx, request.UserID, request.Amount, class)
	if err != nil {
		return nil, err
	}

	card, applied, err := o.resolveCard(ctx, request, class, recommended)
	if err != nil {
		return nil, err
	}

	result, err := o.submit(ctx, request, card, applied, recommended)
	if err != nil {
		return nil, err
	}

	if err := o.commit(ctx, request, card, applied, recommended); err != nil {
		return nil, err
	}

	o.publish(request, result)

	return result, nil
}

// resolveCard picks the card and benefit the payment runs on. With a token
// the presented card wins; without one the recommended card does, falling
// back to the user's first active card with zero benefit.
func (o *orchestrator) resolveCard(
	ctx context.Context,
	request *paymentDomain.Request,
	class benefitDomain.Classification,
	recommended *benefitDomain.Candidate,
) (*benefitDomain.Card, *benefitDomain.Candidate, error) {
	if !request.BestCard() {
		return o.resolvePresentedCard(ctx, request, class)
	}

	if recommended != nil {
		card, err := o.cardRepo.GetByUserAndCredential(ctx, request.UserID, recommended.CardCredential)
		if err != nil {
			return nil, nil, err
		}
		return card, recommended, nil
	}

	cards, err := o.cardRepo.ListActiveByUser(ctx, request.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(cards) == 0 {
		return nil, nil, apperrors.Wrap(apperrors.ErrNotFound, "user has no active card")
	}
	return cards[0], nil, nil
}

// resolvePresentedCard validates the token, binds it to the requesting user
// and computes the real benefit for that card. Every token defect collapses
// into ErrTokenInvalid.
func (o *orchestrator) resolvePresentedCard(
	ctx context.Context,
	request *paymentDomain.Request,
	class benefitDomain.Classification,
) (*benefitDomain.Card, *benefitDomain.Candidate, error) {
	payload, err := o.validateToken(ctx, request.Token)
	if err != nil {
		return nil, nil, err
	}

	if payload.UserID != request.UserID.String() {
		return nil, nil, apperrors.ErrTokenInvalid
	}

	card, err := o.cardRepo.GetByUserAndCredential(ctx, request.UserID, payload.CardCredential)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrTokenInvalid
		}
		return nil, nil, err
	}
	if !card.HasActiveCredential() {
		return nil, nil, apperrors.ErrTokenInvalid
	}

	applied, err := o.selector.BestCandidateForCard(ctx, request.UserID, card.ID, request.Amount, class)
	if err != nil {
		return nil, nil, err
	}

	return card, applied, nil
}

// validateToken accepts online and offline tokens, full or aliased. A string
// that validates as neither is retried as an alias before giving up.
func (o *orchestrator) validateToken(ctx context.Context, token string) (*tokenDomain.Payload, error) {
	if payload, err := o.validateVariants(ctx, token); err == nil {
		return payload, nil
	}

	resolved, err := o.tokens.ResolveAlias(ctx, token)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	payload, err := o.validateVariants(ctx, resolved)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	return payload, nil
}

// validateVariants tries the card-bound variants in order.
func (o *orchestrator) validateVariants(ctx context.Context, token string) (*tokenDomain.Payload, error) {
	if payload, err := o.tokens.Validate(ctx, token, tokenDomain.VariantOnline); err == nil {
		return payload, nil
	}
	return o.tokens.Validate(ctx, token, tokenDomain.VariantOffline)
}

// submit builds and sends the issuer transaction.
func (o *orchestrator) submit(
	ctx context.Context,
	request *paymentDomain.Request,
	card *benefitDomain.Card,
	applied, recommended *benefitDomain.Candidate,
) (*paymentDomain.Result, error) {
	txRequest := &issuer.TransactionRequest{
		CardCredential: card.Credential,
		Amount:         request.Amount,
		MerchantName:   request.MerchantName,
		RequestedAt:    o.now().UTC(),
	}
	if applied != nil {
		txRequest.BenefitID = applied.BenefitID
		txRequest.BenefitType = string(applied.BenefitType)
		txRequest.BenefitAmount = applied.Amount
	}

	txResponse, err := o.issuerClient.Submit(ctx, txRequest)
	if err != nil {
		return nil, err
	}

	return &paymentDomain.Result{
		Approved:       true,
		ApprovalCode:   txResponse.ApprovalCode,
		SettledAt:      txResponse.SettledAt,
		CardID:         card.ID,
		CardCredential: card.Credential,
		Applied:        applied,
		Recommended:    recommended,
	}, nil
}

// commit persists the post-approval bookkeeping in one transaction and
// triggers the fire-and-forget summary refresh.
func (o *orchestrator) commit(
	ctx context.Context,
	request *paymentDomain.Request,
	card *benefitDomain.Card,
	applied, recommended *benefitDomain.Candidate,
) error {
	at := o.now().UTC()

	err := o.txManager.WithTx(ctx, func(ctx context.Context) error {
		comparison := paymentDomain.NewComparison(
			request.UserID,
			request.MerchantName,
			request.Amount,
			recommended,
			applied,
			card.ID,
		)
		if err := o.comparisonRepo.Upsert(ctx, comparison); err != nil {
			return err
		}

		if applied != nil && applied.Amount > 0 {
			return o.usageRepo.ApplyUsage(
				ctx,
				request.UserID,
				applied.BenefitID,
				at.Year(),
				at.Month(),
				applied.Amount,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.reportClient.RefreshMonthlySummary(context.WithoutCancel(ctx), request.UserID, at.Year(), at.Month())

	return nil
}

// publish pushes the advisory notification; delivery is best effort.
func (o *orchestrator) publish(request *paymentDomain.Request, result *paymentDomain.Result) {
	o.notifier.Publish(notify.Event{
		UserID:        request.UserID,
		Approved:      result.Approved,
		Amount:        request.Amount,
		BenefitAmount: result.AppliedAmount(),
		MerchantName:  request.MerchantName,
		OccurredAt:    o.now().UTC(),
	})

	if o.logger != nil {
		o.logger.Info("payment approved",
			slog.String("user_id", request.UserID.String()),
			slog.String("approval_code", result.ApprovalCode),
			slog.Int64("amount", request.Amount),
			slog.Int64("benefit_amount", result.AppliedAmount()),
		)
	}
}

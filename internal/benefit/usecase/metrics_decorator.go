package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/metrics"
)

// selectorWithMetrics decorates Selector with metrics instrumentation.
type selectorWithMetrics struct {
	next    Selector
	metrics metrics.BusinessMetrics
}

// NewSelectorWithMetrics wraps a Selector with metrics recording.
func NewSelectorWithMetrics(selector Selector, m metrics.BusinessMetrics) Selector {
	return &selectorWithMetrics{
		next:    selector,
		metrics: m,
	}
}

// BestCandidate records metrics for cross-card benefit selection.
func (s *selectorWithMetrics) BestCandidate(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	start := time.Now()
	candidate, err := s.next.BestCandidate(ctx, userID, amount, class)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "benefit", "benefit_select", status)
	s.metrics.RecordDuration(ctx, "benefit", "benefit_select", time.Since(start), status)

	return candidate, err
}

// BestCandidateForCard records metrics for single-card benefit evaluation.
func (s *selectorWithMetrics) BestCandidateForCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	start := time.Now()
	candidate, err := s.next.BestCandidateForCard(ctx, userID, cardID, amount, class)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "benefit", "benefit_select_card", status)
	s.metrics.RecordDuration(ctx, "benefit", "benefit_select_card", time.Since(start), status)

	return candidate, err
}

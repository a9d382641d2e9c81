package usecase

import (
	"container/heap"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// candidateHeap is a max-priority queue over candidates, ordered by
// Candidate.Better so equal amounts break deterministically.
type candidateHeap []*benefitDomain.Candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].Better(h[j]) }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)         { *h = append(*h, x.(*benefitDomain.Candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// selector implements Selector.
type selector struct {
	cardRepo  CardRepository
	ruleRepo  RuleRepository
	usageRepo UsageRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewSelector creates the best-benefit selector.
func NewSelector(
	cardRepo CardRepository,
	ruleRepo RuleRepository,
	usageRepo UsageRepository,
	logger *slog.Logger,
) Selector {
	return &selector{
		cardRepo:  cardRepo,
		ruleRepo:  ruleRepo,
		usageRepo: usageRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// BestCandidate evaluates every matching rule on every active card the user
// holds and returns the highest-value candidate, or nil when nothing yields a
// positive amount.
func (s *selector) BestCandidate(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	cards, err := s.cardRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := &candidateHeap{}
	heap.Init(candidates)

	for _, card := range cards {
		if err := s.evaluateCard(ctx, card, amount, class, candidates); err != nil {
			return nil, err
		}
	}

	return popBest(candidates), nil
}

// BestCandidateForCard runs the same evaluation restricted to one card, used
// to compute the real benefit for the card the user actually presented.
func (s *selector) BestCandidateForCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	amount int64,
	class benefitDomain.Classification,
) (*benefitDomain.Candidate, error) {
	cards, err := s.cardRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := &candidateHeap{}
	heap.Init(candidates)

	for _, card := range cards {
		if card.ID != cardID {
			continue
		}
		if err := s.evaluateCard(ctx, card, amount, class, candidates); err != nil {
			return nil, err
		}
	}

	return popBest(candidates), nil
}

// evaluateCard runs every applicable rule of one card through the calculator
// and pushes positive results onto the heap.
func (s *selector) evaluateCard(
	ctx context.Context,
	card *benefitDomain.Card,
	amount int64,
	class benefitDomain.Classification,
	candidates *candidateHeap,
) error {
	rules, err := s.ruleRepo.ListByCardTemplate(ctx, card.CardTemplateID)
	if err != nil {
		return err
	}

	at := s.now().UTC()

	for _, rule := range rules {
		if !rule.AutoApplicable() || !rule.Matches(class) {
			continue
		}

		usage, err := s.usageRepo.GetOrDefault(ctx, card.UserID, rule.ID, at.Year(), at.Month())
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				usage = benefitDomain.NewUsageRecord(card.UserID, rule.ID, at.Year(), at.Month())
			} else {
				return err
			}
		}

		value := benefitDomain.CalculateBenefitAmount(rule, amount, usage)
		if value <= 0 {
			continue
		}

		heap.Push(candidates, &benefitDomain.Candidate{
			CardID:         card.ID,
			CardCredential: card.Credential,
			BenefitID:      rule.ID,
			BenefitType:    rule.BenefitType,
			Amount:         value,
		})
	}

	return nil
}

// popBest returns the top candidate or nil when the heap is empty.
func popBest(candidates *candidateHeap) *benefitDomain.Candidate {
	if candidates.Len() == 0 {
		return nil
	}
	return heap.Pop(candidates).(*benefitDomain.Candidate)
}

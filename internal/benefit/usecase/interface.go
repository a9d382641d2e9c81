// Package usecase implements the per-transaction best-benefit search across a
// user's cards. The selector coordinates card, rule and usage repositories
// with the domain calculator.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
)

// CardRepository defines card persistence operations used by selection.
type CardRepository interface {
	// ListActiveByUser returns the user's cards with an active credential,
	// ordered by ascending card ID.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*benefitDomain.Card, error)

	// GetByUserAndCredential resolves the card a token's credential refers to.
	GetByUserAndCredential(ctx context.Context, userID uuid.UUID, credential string) (*benefitDomain.Card, error)
}

// RuleRepository defines benefit rule persistence operations.
type RuleRepository interface {
	// ListByCardTemplate returns every rule attached to a card product.
	ListByCardTemplate(ctx context.Context, cardTemplateID uuid.UUID) ([]*benefitDomain.Rule, error)
}

// UsageRepository defines monthly usage counter persistence.
//
// ApplyUsage must be atomic at the database level: concurrent payments for
// the same (user, benefit, year, month) key must not lose updates.
type UsageRepository interface {
	// GetOrDefault returns the usage record for the period, lazily
	// default-constructing a zero-value record when none exists yet. The
	// default is not persisted; the first ApplyUsage creates the row.
	GetOrDefault(ctx context.Context, userID, benefitID uuid.UUID, year int, month time.Month) (*benefitDomain.UsageRecord, error)

	// ApplyUsage atomically increments the benefit count by one and the
	// cumulative benefit amount by amount, inserting the row on first use.
	ApplyUsage(ctx context.Context, userID, benefitID uuid.UUID, year int, month time.Month, amount int64) error
}

// Selector finds the single best automatically applicable benefit for a
// payment. A nil candidate with a nil error means "no benefit applies".
type Selector interface {
	// BestCandidate searches every card the user holds.
	BestCandidate(ctx context.Context, userID uuid.UUID, amount int64, class benefitDomain.Classification) (*benefitDomain.Candidate, error)

	// BestCandidateForCard restricts the search to one presented card.
	BestCandidateForCard(ctx context.Context, userID, cardID uuid.UUID, amount int64, class benefitDomain.Classification) (*benefitDomain.Candidate, error)
}

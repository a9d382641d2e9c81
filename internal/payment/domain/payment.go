// Package domain defines the payment attempt model: the request arriving
// from a client, the applied/recommended benefit pair, and the persisted
// recommendation-vs-actual comparison record.
package domain

import (
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
)

// Request is one payment attempt. An empty Token means "let the system pick
// the best card".
type Request struct {
	UserID       uuid.UUID
	Token        string
	MerchantName string
	Amount       int64
}

// BestCard reports whether the request delegates card choice to selection.
func (r *Request) BestCard() bool {
	return r.Token == ""
}

// Result is the outcome of an approved payment.
type Result struct {
	Approved     bool
	ApprovalCode string
	SettledAt    time.Time

	CardID         uuid.UUID
	CardCredential string

	// Applied is the benefit actually granted; nil means zero benefit.
	Applied *benefitDomain.Candidate
	// Recommended is the best benefit across all cards; nil means no card
	// would have yielded one.
	Recommended *benefitDomain.Candidate
}

// AppliedAmount returns the granted benefit value, zero when none applied.
func (r *Result) AppliedAmount() int64 {
	if r.Applied == nil {
		return 0
	}
	return r.Applied.Amount
}

// Comparison is the per-user recommendation-vs-actual record backing the
// "you could have saved more" feedback. One row per user, replaced on every
// approved payment.
type Comparison struct {
	UserID uuid.UUID

	MerchantName string
	Amount       int64

	RecommendedCardID    uuid.UUID
	RecommendedBenefitID uuid.UUID
	RecommendedAmount    int64

	AppliedCardID    uuid.UUID
	AppliedBenefitID uuid.UUID
	AppliedAmount    int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComparison builds the comparison row for an approved payment. Nil
// candidates leave their columns zero.
func NewComparison(
	userID uuid.UUID,
	merchantName string,
	amount int64,
	recommended, applied *benefitDomain.Candidate,
	cardID uuid.UUID,
) *Comparison {
	now := time.Now().UTC()
	c := &Comparison{
		UserID:        userID,
		MerchantName:  merchantName,
		Amount:        amount,
		AppliedCardID: cardID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if recommended != nil {
		c.RecommendedCardID = recommended.CardID
		c.RecommendedBenefitID = recommended.BenefitID
		c.RecommendedAmount = recommended.Amount
	}
	if applied != nil {
		c.AppliedBenefitID = applied.BenefitID
		c.AppliedAmount = applied.Amount
	}
	return c
}

// MissedAmount is the value the user left on the table by not using the
// recommended card.
func (c *Comparison) MissedAmount() int64 {
	missed := c.RecommendedAmount - c.AppliedAmount
	if missed < 0 {
		return 0
	}
	return missed
}

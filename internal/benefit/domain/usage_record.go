package domain

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord holds the monthly per-user, per-benefit counters enforcing
// usage caps. Records are created lazily with zero values the first time a
// benefit is evaluated for a period, mutated after every successful
// non-zero-benefit payment, and never deleted.
type UsageRecord struct {
	UserID    uuid.UUID
	BenefitID uuid.UUID
	Year      int
	Month     time.Month

	// SpendingTier is carried over from the prior month's settled spending;
	// 0 until computed, which always yields zero benefit for tier-gated rules.
	SpendingTier int

	// BenefitCount is the number of benefit applications this month.
	BenefitCount int64
	// BenefitAmount is the cumulative discount value consumed this month.
	BenefitAmount int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUsageRecord returns the lazily default-constructed record for a period:
// all counters zero, spending tier not yet earned.
func NewUsageRecord(userID, benefitID uuid.UUID, year int, month time.Month) *UsageRecord {
	now := time.Now().UTC()
	return &UsageRecord{
		UserID:    userID,
		BenefitID: benefitID,
		Year:      year,
		Month:     month,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

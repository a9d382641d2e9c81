// Package domain defines the benefit rule model and the per-payment benefit
// calculation. Rules are declarative templates attached to card products; the
// calculation is deterministic and auditable, and a result of zero means "no
// benefit applies", never an error.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Rule is a benefit template attached to a card product.
//
// Tier-indexed arrays are conceptually 1-indexed: tier 0 means "no tier earned
// yet" and always yields zero benefit. Nil cap arrays mean "no cap".
type Rule struct {
	// ID is the benefit identifier (UUIDv7).
	ID uuid.UUID
	// CardTemplateID is the card product this rule is attached to.
	CardTemplateID uuid.UUID

	// BenefitType classifies the grant; Coupon rules are excluded from
	// automatic selection at payment time.
	BenefitType BenefitType
	// ConditionType selects the raw-value lookup mode.
	ConditionType ConditionType
	// DiscountType selects fixed-amount vs percentage semantics for
	// SectionValues.
	DiscountType DiscountType

	// MerchantFilter selects the applicability test; the sets below feed it.
	MerchantFilter MerchantFilter
	// CategoryIDs and SubcategoryIDs drive FilterCategoryMatch. Empty means
	// the set contributes no match.
	CategoryIDs    []int64
	SubcategoryIDs []int64
	// MerchantIDs drives FilterMerchantList.
	MerchantIDs []uuid.UUID

	// PerformanceTiers are the ordered spending thresholds defining tiers.
	// The tier index itself is derived elsewhere and carried on the usage
	// record; the thresholds are kept for auditability.
	PerformanceTiers []int64
	// SectionValues are the ordered benefit values, one per tier or per
	// payment bracket depending on ConditionType. For FixedAmount they are
	// amounts in minor units; for Percent they are fractions (0.1 = 10%).
	SectionValues []float64
	// PaymentBrackets are the ordered thresholds used by the range-based
	// condition types.
	PaymentBrackets []int64

	// UsageCountLimits caps the number of uses per month, per tier.
	// Nil means unbounded.
	UsageCountLimits []int64
	// UsageAmountLimits caps the cumulative discount value per month, per
	// tier. Nil means unbounded.
	UsageAmountLimits []int64

	CreatedAt time.Time
}

// Classification is the resolved merchant classification a payment runs
// against. A zero Classification (unknown merchant) still matches FilterAll
// rules.
type Classification struct {
	MerchantID    uuid.UUID
	CategoryID    int64
	SubcategoryID int64
}

// Matches reports whether the rule applies to the classified merchant.
func (r *Rule) Matches(class Classification) bool {
	switch r.MerchantFilter {
	case FilterAll:
		return true
	case FilterCategoryMatch:
		if class.CategoryID != 0 && slices.Contains(r.CategoryIDs, class.CategoryID) {
			return true
		}
		if class.SubcategoryID != 0 && slices.Contains(r.SubcategoryIDs, class.SubcategoryID) {
			return true
		}
		return false
	case FilterMerchantList:
		if class.MerchantID == uuid.Nil {
			return false
		}
		return slices.Contains(r.MerchantIDs, class.MerchantID)
	default:
		return false
	}
}

// AutoApplicable reports whether the rule participates in automatic selection
// at payment time. Coupons are redeemed explicitly, never auto-applied.
func (r *Rule) AutoApplicable() bool {
	return r.BenefitType != Coupon
}

package domain

import "math"

// CalculateBenefitAmount computes the discount value one rule grants for one
// payment, given the requester's current monthly usage. The result is always
// a non-negative amount in minor units; zero means "no benefit applies".
//
// The computation runs in two stages: the condition type maps the payment to
// a raw section value, then the monthly usage caps gate and clamp the final
// amount.
func CalculateBenefitAmount(rule *Rule, amount int64, usage *UsageRecord) int64 {
	raw, ok := rawSectionValue(rule, amount, usage.SpendingTier)
	if !ok || raw <= 0 {
		return 0
	}

	// Usage-count gate: once the monthly count cap for the tier is reached
	// the benefit is gone entirely, not reduced.
	if limit, capped := tierCap(rule.UsageCountLimits, usage.SpendingTier); capped {
		if usage.BenefitCount >= limit {
			return 0
		}
	}

	// Usage-amount cap: the benefit can only consume what remains of the
	// monthly value cap.
	remainingCap := int64(math.MaxInt64)
	if limit, capped := tierCap(rule.UsageAmountLimits, usage.SpendingTier); capped {
		remainingCap = limit - usage.BenefitAmount
		if remainingCap <= 0 {
			return 0
		}
	}

	var value int64
	switch rule.DiscountType {
	case FixedAmount:
		value = int64(raw)
	case Percent:
		value = int64(float64(amount) * raw)
	default:
		return 0
	}

	if value > remainingCap {
		value = remainingCap
	}
	if value < 0 {
		return 0
	}

	return value
}

// rawSectionValue resolves the rule's raw benefit value for this payment.
// Returns ok=false when no section applies.
func rawSectionValue(rule *Rule, amount int64, tier int) (float64, bool) {
	switch rule.ConditionType {
	case TierLookup:
		return tierSectionValue(rule.SectionValues, tier)
	case RangeByAmount:
		return bracketSectionValue(rule, amount)
	case TierGatedRange:
		if tier < 1 {
			return 0, false
		}
		return bracketSectionValue(rule, amount)
	default:
		return 0, false
	}
}

// tierSectionValue indexes the section values by spending tier. Tier 0 means
// no tier earned yet; a tier beyond the array means no benefit defined.
func tierSectionValue(sections []float64, tier int) (float64, bool) {
	if tier < 1 || tier > len(sections) {
		return 0, false
	}
	return sections[tier-1], true
}

// bracketSectionValue scans the payment brackets in order; the matching
// bracket is the first threshold strictly less than the amount.
func bracketSectionValue(rule *Rule, amount int64) (float64, bool) {
	for i, threshold := range rule.PaymentBrackets {
		if threshold < amount {
			if i >= len(rule.SectionValues) {
				return 0, false
			}
			return rule.SectionValues[i], true
		}
	}
	return 0, false
}

// tierCap resolves the per-tier cap for the user's tier. Returns capped=false
// when the cap array is absent or the tier has no defined entry (absent means
// unbounded). Tier 0 reads the first entry: range-based rules apply without a
// tier, and their caps live in the first slot.
func tierCap(limits []int64, tier int) (int64, bool) {
	if len(limits) == 0 {
		return 0, false
	}

	idx := tier - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(limits) {
		return 0, false
	}

	return limits[idx], true
}

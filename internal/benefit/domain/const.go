package domain

import (
	"fmt"

	apperrors "github.com/allisson/cardpay/internal/errors"
)

// BenefitType classifies what a rule grants.
type BenefitType string

const (
	// Discount reduces the charged amount at payment time.
	Discount BenefitType = "DISCOUNT"
	// Mileage accrues reward miles instead of reducing the charge.
	Mileage BenefitType = "MILEAGE"
	// Coupon rules are redeemed explicitly by the user and are never
	// auto-applied at payment time.
	Coupon BenefitType = "COUPON"
)

// IsValid reports whether t is a known benefit type.
func (t BenefitType) IsValid() bool {
	switch t {
	case Discount, Mileage, Coupon:
		return true
	default:
		return false
	}
}

// ParseBenefitType converts a stored string into a BenefitType, rejecting
// unknown values at construction time instead of defaulting silently.
func ParseBenefitType(s string) (BenefitType, error) {
	t := BenefitType(s)
	if !t.IsValid() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown benefit type %q", s))
	}
	return t, nil
}

// ConditionType selects how a rule maps a payment to a raw benefit value.
type ConditionType string

const (
	// TierLookup indexes the section values by the user's spending tier.
	TierLookup ConditionType = "TIER_LOOKUP"
	// RangeByAmount indexes the section values by the payment-amount bracket.
	RangeByAmount ConditionType = "RANGE_BY_AMOUNT"
	// TierGatedRange behaves like RangeByAmount but only for users with a
	// spending tier of at least 1.
	TierGatedRange ConditionType = "TIER_GATED_RANGE"
)

// IsValid reports whether c is a known condition type.
func (c ConditionType) IsValid() bool {
	switch c {
	case TierLookup, RangeByAmount, TierGatedRange:
		return true
	default:
		return false
	}
}

// ParseConditionType converts a stored string into a ConditionType.
func ParseConditionType(s string) (ConditionType, error) {
	c := ConditionType(s)
	if !c.IsValid() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown condition type %q", s))
	}
	return c, nil
}

// DiscountType selects how a raw section value converts into a money amount.
type DiscountType string

const (
	// FixedAmount section values are absolute amounts in minor units.
	FixedAmount DiscountType = "FIXED_AMOUNT"
	// Percent section values are fractions of the payment amount (0.1 = 10%).
	Percent DiscountType = "PERCENT"
)

// IsValid reports whether d is a known discount type.
func (d DiscountType) IsValid() bool {
	switch d {
	case FixedAmount, Percent:
		return true
	default:
		return false
	}
}

// ParseDiscountType converts a stored string into a DiscountType.
func ParseDiscountType(s string) (DiscountType, error) {
	d := DiscountType(s)
	if !d.IsValid() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown discount type %q", s))
	}
	return d, nil
}

// MerchantFilter selects which merchants a rule applies to.
type MerchantFilter string

const (
	// FilterAll matches every merchant.
	FilterAll MerchantFilter = "ALL"
	// FilterCategoryMatch matches when the rule's category or subcategory
	// sets contain the merchant's classification.
	FilterCategoryMatch MerchantFilter = "CATEGORY_MATCH"
	// FilterMerchantList matches only merchants in the rule's explicit list.
	FilterMerchantList MerchantFilter = "EXPLICIT_MERCHANT_LIST"
)

// IsValid reports whether f is a known merchant filter.
func (f MerchantFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterCategoryMatch, FilterMerchantList:
		return true
	default:
		return false
	}
}

// ParseMerchantFilter converts a stored string into a MerchantFilter.
func ParseMerchantFilter(s string) (MerchantFilter, error) {
	f := MerchantFilter(s)
	if !f.IsValid() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("unknown merchant filter %q", s))
	}
	return f, nil
}

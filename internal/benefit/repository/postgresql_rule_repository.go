package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// ruleColumns is the shared select list for benefit rule queries.
const ruleColumns = `id, card_template_id, benefit_type, condition_type, discount_type,
			  merchant_filter, category_ids, subcategory_ids, merchant_ids,
			  performance_tiers, section_values, payment_brackets,
			  usage_count_limits, usage_amount_limits, created_at`

// encodeArray serializes a rule array column as JSON. Nil slices become SQL
// NULL so "no cap" and "empty set" survive the round trip.
func encodeArray[T any](s []T) (any, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode rule array")
	}
	return data, nil
}

// decodeArray deserializes a rule array column; NULL stays a nil slice.
func decodeArray[T any](data []byte, dest *[]T) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.Wrap(err, "failed to decode rule array")
	}
	return nil
}

// ruleArrayArgs encodes every array column of a rule in insert order.
func ruleArrayArgs(rule *benefitDomain.Rule) ([]any, error) {
	categoryIDs, err := encodeArray(rule.CategoryIDs)
	if err != nil {
		return nil, err
	}
	subcategoryIDs, err := encodeArray(rule.SubcategoryIDs)
	if err != nil {
		return nil, err
	}
	merchantIDs, err := encodeArray(rule.MerchantIDs)
	if err != nil {
		return nil, err
	}
	performanceTiers, err := encodeArray(rule.PerformanceTiers)
	if err != nil {
		return nil, err
	}
	sectionValues, err := encodeArray(rule.SectionValues)
	if err != nil {
		return nil, err
	}
	paymentBrackets, err := encodeArray(rule.PaymentBrackets)
	if err != nil {
		return nil, err
	}
	usageCountLimits, err := encodeArray(rule.UsageCountLimits)
	if err != nil {
		return nil, err
	}
	usageAmountLimits, err := encodeArray(rule.UsageAmountLimits)
	if err != nil {
		return nil, err
	}

	return []any{
		categoryIDs,
		subcategoryIDs,
		merchantIDs,
		performanceTiers,
		sectionValues,
		paymentBrackets,
		usageCountLimits,
		usageAmountLimits,
	}, nil
}

// scanRule scans one rule row. The id destinations are caller-provided so
// drivers can differ in UUID storage; every other column scans the same way.
func scanRule(row scanner, idDest, templateDest any) (*benefitDomain.Rule, error) {
	var rule benefitDomain.Rule
	var benefitType, conditionType, discountType, merchantFilter string
	var categoryIDs, subcategoryIDs, merchantIDs []byte
	var performanceTiers, sectionValues, paymentBrackets []byte
	var usageCountLimits, usageAmountLimits []byte

	err := row.Scan(
		idDest,
		templateDest,
		&benefitType,
		&conditionType,
		&discountType,
		&merchantFilter,
		&categoryIDs,
		&subcategoryIDs,
		&merchantIDs,
		&performanceTiers,
		&sectionValues,
		&paymentBrackets,
		&usageCountLimits,
		&usageAmountLimits,
		&rule.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan benefit rule")
	}

	if rule.BenefitType, err = benefitDomain.ParseBenefitType(benefitType); err != nil {
		return nil, err
	}
	if rule.ConditionType, err = benefitDomain.ParseConditionType(conditionType); err != nil {
		return nil, err
	}
	if rule.DiscountType, err = benefitDomain.ParseDiscountType(discountType); err != nil {
		return nil, err
	}
	if rule.MerchantFilter, err = benefitDomain.ParseMerchantFilter(merchantFilter); err != nil {
		return nil, err
	}

	if err := decodeArray(categoryIDs, &rule.CategoryIDs); err != nil {
		return nil, err
	}
	if err := decodeArray(subcategoryIDs, &rule.SubcategoryIDs); err != nil {
		return nil, err
	}
	if err := decodeArray(merchantIDs, &rule.MerchantIDs); err != nil {
		return nil, err
	}
	if err := decodeArray(performanceTiers, &rule.PerformanceTiers); err != nil {
		return nil, err
	}
	if err := decodeArray(sectionValues, &rule.SectionValues); err != nil {
		return nil, err
	}
	if err := decodeArray(paymentBrackets, &rule.PaymentBrackets); err != nil {
		return nil, err
	}
	if err := decodeArray(usageCountLimits, &rule.UsageCountLimits); err != nil {
		return nil, err
	}
	if err := decodeArray(usageAmountLimits, &rule.UsageAmountLimits); err != nil {
		return nil, err
	}

	return &rule, nil
}

// PostgreSQLRuleRepository implements benefit rule persistence for PostgreSQL databases.
type PostgreSQLRuleRepository struct {
	db *sql.DB
}

// Create inserts a new benefit rule into the PostgreSQL database.
func (p *PostgreSQLRuleRepository) Create(ctx context.Context, rule *benefitDomain.Rule) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO benefit_rules (` + ruleColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	arrays, err := ruleArrayArgs(rule)
	if err != nil {
		return err
	}

	args := []any{
		rule.ID,
		rule.CardTemplateID,
		rule.BenefitType,
		rule.ConditionType,
		rule.DiscountType,
		rule.MerchantFilter,
	}
	args = append(args, arrays...)
	args = append(args, rule.CreatedAt)

	if _, err := querier.ExecContext(ctx, query, args...); err != nil {
		return apperrors.Wrap(err, "failed to create benefit rule")
	}
	return nil
}

// ListByCardTemplate returns every rule attached to a card product.
func (p *PostgreSQLRuleRepository) ListByCardTemplate(
	ctx context.Context,
	cardTemplateID uuid.UUID,
) ([]*benefitDomain.Rule, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + ruleColumns + `
			  FROM benefit_rules
			  WHERE card_template_id = $1
			  ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, cardTemplateID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list benefit rules")
	}
	defer rows.Close()

	var rules []*benefitDomain.Rule
	for rows.Next() {
		var rule *benefitDomain.Rule
		var id, templateID uuid.UUID

		rule, err = scanRule(rows, &id, &templateID)
		if err != nil {
			return nil, err
		}
		rule.ID = id
		rule.CardTemplateID = templateID
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate benefit rules")
	}

	return rules, nil
}

// NewPostgreSQLRuleRepository creates a new PostgreSQL benefit rule repository instance.
func NewPostgreSQLRuleRepository(db *sql.DB) *PostgreSQLRuleRepository {
	return &PostgreSQLRuleRepository{db: db}
}

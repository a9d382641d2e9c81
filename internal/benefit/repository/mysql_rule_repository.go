package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// MySQLRuleRepository implements benefit rule persistence for MySQL databases.
type MySQLRuleRepository struct {
	db *sql.DB
}

// Create inserts a new benefit rule into the MySQL database.
func (m *MySQLRuleRepository) Create(ctx context.Context, rule *benefitDomain.Rule) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO benefit_rules (` + ruleColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := rule.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal rule id")
	}

	templateID, err := rule.CardTemplateID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card template id")
	}

	arrays, err := ruleArrayArgs(rule)
	if err != nil {
		return err
	}

	args := []any{
		id,
		templateID,
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
func (m *MySQLRuleRepository) ListByCardTemplate(
	ctx context.Context,
	cardTemplateID uuid.UUID,
) ([]*benefitDomain.Rule, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + ruleColumns + `
			  FROM benefit_rules
			  WHERE card_template_id = ?
			  ORDER BY id ASC`

	templateID, err := cardTemplateID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal card template id")
	}

	rows, err := querier.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list benefit rules")
	}
	defer rows.Close()

	var rules []*benefitDomain.Rule
	for rows.Next() {
		var rule *benefitDomain.Rule
		var id, template []byte

		rule, err = scanRule(rows, &id, &template)
		if err != nil {
			return nil, err
		}
		if err := rule.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal rule id")
		}
		if err := rule.CardTemplateID.UnmarshalBinary(template); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal card template id")
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate benefit rules")
	}

	return rules, nil
}

// NewMySQLRuleRepository creates a new MySQL benefit rule repository instance.
func NewMySQLRuleRepository(db *sql.DB) *MySQLRuleRepository {
	return &MySQLRuleRepository{db: db}
}

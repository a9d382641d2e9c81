// Package repository implements comparison record persistence for PostgreSQL
// and MySQL databases.
package repository

import (
	"context"
	"database/sql"

	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"

	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// PostgreSQLComparisonRepository implements comparison persistence for PostgreSQL databases.
type PostgreSQLComparisonRepository struct {
	db *sql.DB
}

// Upsert replaces the user's comparison record with the latest approved
// payment's recommendation-vs-actual outcome.
func (p *PostgreSQLComparisonRepository) Upsert(
	ctx context.Context,
	comparison *paymentDomain.Comparison,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payment_comparisons
			  (user_id, merchant_name, amount,
			   recommended_card_id, recommended_benefit_id, recommended_amount,
			   applied_card_id, applied_benefit_id, applied_amount,
			   created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			  ON CONFLICT (user_id) DO UPDATE
			  SET merchant_name = EXCLUDED.merchant_name,
				  amount = EXCLUDED.amount,
				  recommended_card_id = EXCLUDED.recommended_card_id,
				  recommended_benefit_id = EXCLUDED.recommended_benefit_id,
				  recommended_amount = EXCLUDED.recommended_amount,
				  applied_card_id = EXCLUDED.applied_card_id,
				  applied_benefit_id = EXCLUDED.applied_benefit_id,
				  applied_amount = EXCLUDED.applied_amount,
				  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		comparison.UserID,
		comparison.MerchantName,
		comparison.Amount,
		comparison.RecommendedCardID,
		comparison.RecommendedBenefitID,
		comparison.RecommendedAmount,
		comparison.AppliedCardID,
		comparison.AppliedBenefitID,
		comparison.AppliedAmount,
		comparison.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert comparison")
	}

	return nil
}

// NewPostgreSQLComparisonRepository creates a new PostgreSQL comparison repository instance.
func NewPostgreSQLComparisonRepository(db *sql.DB) *PostgreSQLComparisonRepository {
	return &PostgreSQLComparisonRepository{db: db}
}

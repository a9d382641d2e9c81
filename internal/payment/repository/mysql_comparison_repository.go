package repository

import (
	"context"
	"database/sql"

	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"

	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// MySQLComparisonRepository implements comparison persistence for MySQL databases.
type MySQLComparisonRepository struct {
	db *sql.DB
}

// Upsert replaces the user's comparison record with the latest approved
// payment's recommendation-vs-actual outcome.
func (m *MySQLComparisonRepository) Upsert(
	ctx context.Context,
	comparison *paymentDomain.Comparison,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO payment_comparisons
			  (user_id, merchant_name, amount,
			   recommended_card_id, recommended_benefit_id, recommended_amount,
			   applied_card_id, applied_benefit_id, applied_amount,
			   created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  merchant_name = VALUES(merchant_name),
				  amount = VALUES(amount),
				  recommended_card_id = VALUES(recommended_card_id),
				  recommended_benefit_id = VALUES(recommended_benefit_id),
				  recommended_amount = VALUES(recommended_amount),
				  applied_card_id = VALUES(applied_card_id),
				  applied_benefit_id = VALUES(applied_benefit_id),
				  applied_amount = VALUES(applied_amount),
				  updated_at = VALUES(updated_at)`

	userID, err := comparison.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	recommendedCardID, err := comparison.RecommendedCardID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recommended card id")
	}

	recommendedBenefitID, err := comparison.RecommendedBenefitID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal recommended benefit id")
	}

	appliedCardID, err := comparison.AppliedCardID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal applied card id")
	}

	appliedBenefitID, err := comparison.AppliedBenefitID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal applied benefit id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		userID,
		comparison.MerchantName,
		comparison.Amount,
		recommendedCardID,
		recommendedBenefitID,
		comparison.RecommendedAmount,
		appliedCardID,
		appliedBenefitID,
		comparison.AppliedAmount,
		comparison.CreatedAt,
		comparison.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert comparison")
	}

	return nil
}

// NewMySQLComparisonRepository creates a new MySQL comparison repository instance.
func NewMySQLComparisonRepository(db *sql.DB) *MySQLComparisonRepository {
	return &MySQLComparisonRepository{db: db}
}

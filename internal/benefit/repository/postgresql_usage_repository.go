package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// PostgreSQLUsageRepository implements monthly usage counter persistence for
// PostgreSQL databases.
type PostgreSQLUsageRepository struct {
	db *sql.DB
}

// GetOrDefault returns the usage record for the period, lazily constructing a
// zero-value record when none exists yet. The default is not persisted.
func (p *PostgreSQLUsageRepository) GetOrDefault(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
) (*benefitDomain.UsageRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, benefit_id, year, month, spending_tier, benefit_count, benefit_amount, created_at, updated_at
			  FROM usage_records
			  WHERE user_id = $1 AND benefit_id = $2 AND year = $3 AND month = $4
			  LIMIT 1`

	var record benefitDomain.UsageRecord
	var monthNum int
	err := querier.QueryRowContext(ctx, query, userID, benefitID, year, int(month)).Scan(
		&record.UserID,
		&record.BenefitID,
		&record.Year,
		&monthNum,
		&record.SpendingTier,
		&record.BenefitCount,
		&record.BenefitAmount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return benefitDomain.NewUsageRecord(userID, benefitID, year, month), nil
		}
		return nil, apperrors.Wrap(err, "failed to get usage record")
	}
	record.Month = time.Month(monthNum)

	return &record, nil
}

// ApplyUsage atomically increments the monthly counters, inserting the row on
// first use. The increment happens inside the database so concurrent payments
// for the same period never lose updates.
func (p *PostgreSQLUsageRepository) ApplyUsage(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
	amount int64,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO usage_records (user_id, benefit_id, year, month, spending_tier, benefit_count, benefit_amount, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, 0, 1, $5, $6, $6)
			  ON CONFLICT (user_id, benefit_id, year, month) DO UPDATE
			  SET benefit_count = usage_records.benefit_count + 1,
				  benefit_amount = usage_records.benefit_amount + EXCLUDED.benefit_amount,
				  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, userID, benefitID, year, int(month), amount, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to apply usage")
	}

	return nil
}

// NewPostgreSQLUsageRepository creates a new PostgreSQL usage repository instance.
func NewPostgreSQLUsageRepository(db *sql.DB) *PostgreSQLUsageRepository {
	return &PostgreSQLUsageRepository{db: db}
}

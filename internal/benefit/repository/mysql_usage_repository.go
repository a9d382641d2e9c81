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

// MySQLUsageRepository implements monthly usage counter persistence for MySQL
// databases.
type MySQLUsageRepository struct {
	db *sql.DB
}

// GetOrDefault returns the usage record for the period, lazily constructing a
// zero-value record when none exists yet. The default is not persisted.
func (m *MySQLUsageRepository) GetOrDefault(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
) (*benefitDomain.UsageRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT user_id, benefit_id, year, month, spending_tier, benefit_count, benefit_amount, created_at, updated_at
			  FROM usage_records
			  WHERE user_id = ? AND benefit_id = ? AND year = ? AND month = ?
			  LIMIT 1`

	uid, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	bid, err := benefitID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal benefit id")
	}

	var record benefitDomain.UsageRecord
	var scannedUserID, scannedBenefitID []byte
	var monthNum int
	err = querier.QueryRowContext(ctx, query, uid, bid, year, int(month)).Scan(
		&scannedUserID,
		&scannedBenefitID,
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

	if err := record.UserID.UnmarshalBinary(scannedUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := record.BenefitID.UnmarshalBinary(scannedBenefitID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal benefit id")
	}

	return &record, nil
}

// ApplyUsage atomically increments the monthly counters, inserting the row on
// first use. The increment happens inside the database so concurrent payments
// for the same period never lose updates.
func (m *MySQLUsageRepository) ApplyUsage(
	ctx context.Context,
	userID, benefitID uuid.UUID,
	year int,
	month time.Month,
	amount int64,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO usage_records (user_id, benefit_id, year, month, spending_tier, benefit_count, benefit_amount, created_at, updated_at)
			  VALUES (?, ?, ?, ?, 0, 1, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  benefit_count = benefit_count + 1,
				  benefit_amount = benefit_amount + VALUES(benefit_amount),
				  updated_at = VALUES(updated_at)`

	uid, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	bid, err := benefitID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal benefit id")
	}

	now := time.Now().UTC()
	_, err = querier.ExecContext(ctx, query, uid, bid, year, int(month), amount, now, now)
	if err != nil {
		return apperrors.Wrap(err, "failed to apply usage")
	}

	return nil
}

// NewMySQLUsageRepository creates a new MySQL usage repository instance.
func NewMySQLUsageRepository(db *sql.DB) *MySQLUsageRepository {
	return &MySQLUsageRepository{db: db}
}

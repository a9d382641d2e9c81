package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	paymentDomain "github.com/allisson/cardpay/internal/payment/domain"
)

func testComparison() *paymentDomain.Comparison {
	recommended := &benefitDomain.Candidate{
		CardID:    uuid.Must(uuid.NewV7()),
		BenefitID: uuid.Must(uuid.NewV7()),
		Amount:    1500,
	}
	applied := &benefitDomain.Candidate{
		CardID:    uuid.Must(uuid.NewV7()),
		BenefitID: uuid.Must(uuid.NewV7()),
		Amount:    500,
	}
	return paymentDomain.NewComparison(
		uuid.Must(uuid.NewV7()),
		"coffee house",
		20000,
		recommended,
		applied,
		applied.CardID,
	)
}

func TestPostgreSQLComparisonRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLComparisonRepository(db)
	ctx := context.Background()

	comparison := testComparison()

	mock.ExpectExec("INSERT INTO payment_comparisons").
		WithArgs(
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
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(ctx, comparison)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLComparisonRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLComparisonRepository(db)
	ctx := context.Background()

	comparison := testComparison()

	mock.ExpectExec("INSERT INTO payment_comparisons").
		WithArgs(
			sqlmock.AnyArg(), // binary user id
			comparison.MerchantName,
			comparison.Amount,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			comparison.RecommendedAmount,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			comparison.AppliedAmount,
			comparison.CreatedAt,
			comparison.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(ctx, comparison)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

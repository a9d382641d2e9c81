// Package repository implements merchant directory persistence for PostgreSQL
// and MySQL databases.
package repository

import (
	"context"
	"database/sql"

	merchantDomain "github.com/allisson/cardpay/internal/merchant/domain"

	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// PostgreSQLMerchantRepository implements merchant persistence for PostgreSQL databases.
type PostgreSQLMerchantRepository struct {
	db *sql.DB
}

// Create inserts a new merchant into the PostgreSQL database. Names are
// stored normalized so lookups are exact.
func (p *PostgreSQLMerchantRepository) Create(ctx context.Context, merchant *merchantDomain.Merchant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO merchants (id, name, category_id, subcategory_id, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		merchant.ID,
		merchantDomain.NormalizeName(merchant.Name),
		merchant.CategoryID,
		merchant.SubcategoryID,
		merchant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create merchant")
	}
	return nil
}

// ListAll returns the whole merchant directory for snapshot building.
func (p *PostgreSQLMerchantRepository) ListAll(ctx context.Context) ([]*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, category_id, subcategory_id, created_at
			  FROM merchants
			  ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list merchants")
	}
	defer rows.Close()

	var merchants []*merchantDomain.Merchant
	for rows.Next() {
		var merchant merchantDomain.Merchant
		if err := rows.Scan(
			&merchant.ID,
			&merchant.Name,
			&merchant.CategoryID,
			&merchant.SubcategoryID,
			&merchant.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan merchant")
		}
		merchants = append(merchants, &merchant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate merchants")
	}

	return merchants, nil
}

// GetByName resolves one merchant by its normalized name.
func (p *PostgreSQLMerchantRepository) GetByName(
	ctx context.Context,
	name string,
) (*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, category_id, subcategory_id, created_at
			  FROM merchants
			  WHERE name = $1
			  LIMIT 1`

	var merchant merchantDomain.Merchant
	err := querier.QueryRowContext(ctx, query, merchantDomain.NormalizeName(name)).Scan(
		&merchant.ID,
		&merchant.Name,
		&merchant.CategoryID,
		&merchant.SubcategoryID,
		&merchant.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get merchant by name")
	}

	return &merchant, nil
}

// NewPostgreSQLMerchantRepository creates a new PostgreSQL merchant repository instance.
func NewPostgreSQLMerchantRepository(db *sql.DB) *PostgreSQLMerchantRepository {
	return &PostgreSQLMerchantRepository{db: db}
}

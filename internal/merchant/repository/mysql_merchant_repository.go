package repository

import (
	"context"
	"database/sql"

	merchantDomain "github.com/allisson/cardpay/internal/merchant/domain"

	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// MySQLMerchantRepository implements merchant persistence for MySQL databases.
type MySQLMerchantRepository struct {
	db *sql.DB
}

// Create inserts a new merchant into the MySQL database. Names are stored
// normalized so lookups are exact.
func (m *MySQLMerchantRepository) Create(ctx context.Context, merchant *merchantDomain.Merchant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO merchants (id, name, category_id, subcategory_id, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := merchant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal merchant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLMerchantRepository) ListAll(ctx context.Context) ([]*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, m.db)

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
		merchant, err := scanMySQLMerchant(rows)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, merchant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate merchants")
	}

	return merchants, nil
}

// GetByName resolves one merchant by its normalized name.
func (m *MySQLMerchantRepository) GetByName(
	ctx context.Context,
	name string,
) (*merchantDomain.Merchant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, category_id, subcategory_id, created_at
			  FROM merchants
			  WHERE name = ?
			  LIMIT 1`

	row := querier.QueryRowContext(ctx, query, merchantDomain.NormalizeName(name))

	merchant, err := scanMySQLMerchant(row)
	if err != nil {
		return nil, err
	}

	return merchant, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanMySQLMerchant(row scanner) (*merchantDomain.Merchant, error) {
	var merchant merchantDomain.Merchant
	var id []byte

	err := row.Scan(
		&id,
		&merchant.Name,
		&merchant.CategoryID,
		&merchant.SubcategoryID,
		&merchant.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan merchant")
	}

	if err := merchant.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal merchant id")
	}

	return &merchant, nil
}

// NewMySQLMerchantRepository creates a new MySQL merchant repository instance.
func NewMySQLMerchantRepository(db *sql.DB) *MySQLMerchantRepository {
	return &MySQLMerchantRepository{db: db}
}

// Package repository implements data persistence for cards, benefit rules and
// monthly usage counters. Repositories support both PostgreSQL and MySQL; the
// rule array columns are stored as JSON.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// PostgreSQLCardRepository implements Card persistence for PostgreSQL databases.
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// Create inserts a new card into the PostgreSQL database.
func (p *PostgreSQLCardRepository) Create(ctx context.Context, card *benefitDomain.Card) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cards (id, user_id, card_template_id, credential, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.CardTemplateID,
		card.Credential,
		card.Status,
		card.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create card")
	}
	return nil
}

// ListActiveByUser returns the user's cards with an active credential, ordered
// by ascending card ID so selection tie-breaks are stable.
func (p *PostgreSQLCardRepository) ListActiveByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*benefitDomain.Card, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, card_template_id, credential, status, created_at
			  FROM cards
			  WHERE user_id = $1 AND status = $2
			  ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, userID, benefitDomain.CredentialActive)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active cards")
	}
	defer rows.Close()

	var cards []*benefitDomain.Card
	for rows.Next() {
		var card benefitDomain.Card
		if err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.CardTemplateID,
			&card.Credential,
			&card.Status,
			&card.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}

	return cards, nil
}

// GetByUserAndCredential resolves the card a token's credential refers to.
func (p *PostgreSQLCardRepository) GetByUserAndCredential(
	ctx context.Context,
	userID uuid.UUID,
	credential string,
) (*benefitDomain.Card, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, card_template_id, credential, status, created_at
			  FROM cards
			  WHERE user_id = $1 AND credential = $2
			  LIMIT 1`

	var card benefitDomain.Card
	err := querier.QueryRowContext(ctx, query, userID, credential).Scan(
		&card.ID,
		&card.UserID,
		&card.CardTemplateID,
		&card.Credential,
		&card.Status,
		&card.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card by credential")
	}

	return &card, nil
}

// NewPostgreSQLCardRepository creates a new PostgreSQL Card repository instance.
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{db: db}
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	benefitDomain "github.com/allisson/cardpay/internal/benefit/domain"
	"github.com/allisson/cardpay/internal/database"
	apperrors "github.com/allisson/cardpay/internal/errors"
)

// MySQLCardRepository implements Card persistence for MySQL databases.
type MySQLCardRepository struct {
	db *sql.DB
}

// Create inserts a new card into the MySQL database.
func (m *MySQLCardRepository) Create(ctx context.Context, card *benefitDomain.Card) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO cards (id, user_id, card_template_id, credential, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := card.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card id")
	}

	userID, err := card.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	templateID, err := card.CardTemplateID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card template id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
		templateID,
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
func (m *MySQLCardRepository) ListActiveByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*benefitDomain.Card, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, card_template_id, credential, status, created_at
			  FROM cards
			  WHERE user_id = ? AND status = ?
			  ORDER BY id ASC`

	uid, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	rows, err := querier.QueryContext(ctx, query, uid, benefitDomain.CredentialActive)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active cards")
	}
	defer rows.Close()

	var cards []*benefitDomain.Card
	for rows.Next() {
		card, err := scanMySQLCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}

	return cards, nil
}

// GetByUserAndCredential resolves the card a token's credential refers to.
func (m *MySQLCardRepository) GetByUserAndCredential(
	ctx context.Context,
	userID uuid.UUID,
	credential string,
) (*benefitDomain.Card, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, card_template_id, credential, status, created_at
			  FROM cards
			  WHERE user_id = ? AND credential = ?
			  LIMIT 1`

	uid, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	row := querier.QueryRowContext(ctx, query, uid, credential)

	card, err := scanMySQLCard(row)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return card, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanMySQLCard(row scanner) (*benefitDomain.Card, error) {
	var card benefitDomain.Card
	var id, userID, templateID []byte

	err := row.Scan(
		&id,
		&userID,
		&templateID,
		&card.Credential,
		&card.Status,
		&card.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan card")
	}

	if err := card.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal card id")
	}
	if err := card.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := card.CardTemplateID.UnmarshalBinary(templateID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal card template id")
	}

	return &card, nil
}

// NewMySQLCardRepository creates a new MySQL Card repository instance.
func NewMySQLCardRepository(db *sql.DB) *MySQLCardRepository {
	return &MySQLCardRepository{db: db}
}

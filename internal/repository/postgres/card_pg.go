// internal/repository/postgres/card_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"

	"github.com/jmoiron/sqlx"
)

const cardColumns = `id, owner_id, number_encrypted, number_mask, expiry_date, status, balance, version, created_at, updated_at`

// CardRepository implements repository.CardRepository for PostgreSQL.
type CardRepository struct{}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &CardRepository{}
}

// Insert adds a new card record using the provided DBExecutor.
func (r *CardRepository) Insert(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	query := `INSERT INTO cards (owner_id, number_encrypted, number_mask, expiry_date, status, balance, version, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		card.OwnerID, card.NumberEncrypted, card.NumberMask, card.ExpiryDate,
		card.Status, card.Balance, card.Version, card.CreatedAt, card.UpdatedAt,
	).Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

// GetByID retrieves a card by its ID using the provided DBExecutor.
func (r *CardRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Card, error) {
	var card domain.Card
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	if err := q.GetContext(ctx, &card, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card by ID %d: %w", id, err)
	}
	return &card, nil
}

// GetByOwnerAndID retrieves a card scoped to its owner using the provided DBExecutor.
func (r *CardRepository) GetByOwnerAndID(ctx context.Context, q repository.DBExecutor, ownerID, id int64) (*domain.Card, error) {
	var card domain.Card
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND owner_id = $2`
	if err := q.GetContext(ctx, &card, query, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card %d for owner %d: %w", id, ownerID, err)
	}
	return &card, nil
}

// GetActiveByOwnerAndID retrieves an ACTIVE card scoped to its owner using the provided DBExecutor.
func (r *CardRepository) GetActiveByOwnerAndID(ctx context.Context, q repository.DBExecutor, ownerID, id int64) (*domain.Card, error) {
	var card domain.Card
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND owner_id = $2 AND status = $3`
	if err := q.GetContext(ctx, &card, query, id, ownerID, domain.CardStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active card %d for owner %d: %w", id, ownerID, err)
	}
	return &card, nil
}

// ListByOwner retrieves a page of cards for the given owner, newest first.
func (r *CardRepository) ListByOwner(ctx context.Context, q repository.DBExecutor, ownerID int64, limit, offset int) ([]domain.Card, int64, error) {
	cards := []domain.Card{}
	query := `SELECT ` + cardColumns + ` FROM cards WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &cards, query, ownerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list cards for owner %d: %w", ownerID, err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM cards WHERE owner_id = $1`, ownerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count cards for owner %d: %w", ownerID, err)
	}
	return cards, total, nil
}

// ListByStatus retrieves a page of cards in the given status, newest first.
func (r *CardRepository) ListByStatus(ctx context.Context, q repository.DBExecutor, status domain.CardStatus, limit, offset int) ([]domain.Card, int64, error) {
	cards := []domain.Card{}
	query := `SELECT ` + cardColumns + ` FROM cards WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &cards, query, status, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list cards with status %s: %w", status, err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM cards WHERE status = $1`, status); err != nil {
		return nil, 0, fmt.Errorf("failed to count cards with status %s: %w", status, err)
	}
	return cards, total, nil
}

// ListAll retrieves a page over every card, newest first.
func (r *CardRepository) ListAll(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Card, int64, error) {
	cards := []domain.Card{}
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &cards, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}

	var total int64
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) FROM cards`); err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return cards, total, nil
}

// UpdateIfVersion persists the card's mutable fields conditioned on the
// version observed at read time. Zero rows affected means another writer
// changed (or deleted) the card in between.
func (r *CardRepository) UpdateIfVersion(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	query := `UPDATE cards SET balance = $1, status = $2, updated_at = $3, version = version + 1
              WHERE id = $4 AND version = $5`
	result, err := q.ExecContext(ctx, query, card.Balance, card.Status, card.UpdatedAt, card.ID, card.Version)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating card %d: %w", card.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrVersionConflict
	}
	card.Version++
	return nil
}

// DeleteByID removes a card using the provided DBExecutor. The delete is
// unconditional: balance and status are not checked here.
func (r *CardRepository) DeleteByID(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting card %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

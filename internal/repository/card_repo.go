// internal/repository/card_repo.go
package repository

import (
	"context"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
)

// CardRepository defines the interface for card data operations. List
// methods return the page plus the total row count for the page envelope.
type CardRepository interface {
	// Insert adds a new card record and fills in its generated ID.
	Insert(ctx context.Context, q DBExecutor, card *domain.Card) error
	// GetByID retrieves a card regardless of owner or status.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Card, error)
	// GetByOwnerAndID retrieves a card only if it belongs to the given owner.
	GetByOwnerAndID(ctx context.Context, q DBExecutor, ownerID, id int64) (*domain.Card, error)
	// GetActiveByOwnerAndID retrieves a card only if it belongs to the given
	// owner and is currently ACTIVE.
	GetActiveByOwnerAndID(ctx context.Context, q DBExecutor, ownerID, id int64) (*domain.Card, error)
	// ListByOwner retrieves a page of the owner's cards.
	ListByOwner(ctx context.Context, q DBExecutor, ownerID int64, limit, offset int) ([]domain.Card, int64, error)
	// ListByStatus retrieves a page of cards in the given status.
	ListByStatus(ctx context.Context, q DBExecutor, status domain.CardStatus, limit, offset int) ([]domain.Card, int64, error)
	// ListAll retrieves a page over every card in the system.
	ListAll(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Card, int64, error)
	// UpdateIfVersion persists the card's balance, status and updated_at,
	// conditioned on card.Version still being the stored version. On success
	// the stored version is bumped and card.Version follows; if another
	// writer got there first it fails with util.ErrVersionConflict.
	UpdateIfVersion(ctx context.Context, q DBExecutor, card *domain.Card) error
	// DeleteByID removes a card unconditionally.
	DeleteByID(ctx context.Context, q DBExecutor, id int64) error
}

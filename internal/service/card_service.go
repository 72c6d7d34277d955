// internal/service/card_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/cardcrypto"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
	"github.com/Anastazzi-Grand/bank-rest-main/pkg/db"

	"github.com/shopspring/decimal"
)

// maxConflictRetries bounds how many times an operation re-runs its
// read-validate-write sequence after losing a version race.
const maxConflictRetries = 3

// CardService defines the card-related business logic. The ownerID on every
// operation is the verified identity supplied by the upstream gatekeeper;
// this layer never authenticates it.
type CardService interface {
	CreateCard(ctx context.Context, ownerID int64, number string, expiryDate time.Time, initialBalance *decimal.Decimal) (*CardView, error)
	DeleteCard(ctx context.Context, cardID int64) error
	BlockCard(ctx context.Context, ownerID, cardID int64) (*CardView, error)
	ActivateCard(ctx context.Context, ownerID, cardID int64) (*CardView, error)
	Transfer(ctx context.Context, ownerID, fromCardID, toCardID int64, amount decimal.Decimal) error
	ListOwnerCards(ctx context.Context, ownerID int64, limit, offset int) ([]CardView, int64, error)
	ListCardsByStatus(ctx context.Context, status domain.CardStatus, limit, offset int) ([]CardView, int64, error)
	ListAllCards(ctx context.Context, limit, offset int) ([]CardView, int64, error)
}

// CardView is the card projection returned to callers. The number appears
// only as its mask; neither the plaintext nor the ciphertext ever leaves
// the service.
type CardView struct {
	ID         int64             `json:"id"`
	OwnerID    int64             `json:"owner_id"`
	NumberMask string            `json:"number_mask"`
	ExpiryDate time.Time         `json:"expiry_date"`
	Status     domain.CardStatus `json:"status"`
	Balance    decimal.Decimal   `json:"balance"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toView(card *domain.Card) CardView {
	return CardView{
		ID:         card.ID,
		OwnerID:    card.OwnerID,
		NumberMask: card.NumberMask,
		ExpiryDate: card.ExpiryDate,
		Status:     card.Status,
		Balance:    card.Balance,
		CreatedAt:  card.CreatedAt,
		UpdatedAt:  card.UpdatedAt,
	}
}

func toViews(cards []domain.Card) []CardView {
	views := make([]CardView, len(cards))
	for i := range cards {
		views[i] = toView(&cards[i])
	}
	return views
}

// cardService implements the CardService interface.
type cardService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For single-statement operations (e.g., *sqlx.DB)
	userRepo   repository.UserRepository
	cardRepo   repository.CardRepository
	codec      *cardcrypto.Codec
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewCardService creates a new instance of CardService.
func NewCardService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	cardRepo repository.CardRepository,
	codec *cardcrypto.Codec,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) CardService {
	return &cardService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		cardRepo:   cardRepo,
		codec:      codec,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// CreateCard issues a new card for an existing user. The number is sealed
// and masked exactly once here; the plaintext is not retained.
func (s *cardService) CreateCard(ctx context.Context, ownerID int64, number string, expiryDate time.Time, initialBalance *decimal.Decimal) (*CardView, error) {
	if number == "" {
		return nil, util.ErrInvalidInput
	}
	if initialBalance != nil && initialBalance.IsNegative() {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, s.dbExecutor, ownerID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("create card: failed to get user %d: %w", ownerID, err)
	}

	encrypted, err := s.codec.Encrypt(number)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	card := domain.NewCard(ownerID, encrypted, cardcrypto.Mask(number), expiryDate, initialBalance)
	if err := s.cardRepo.Insert(ctx, s.dbExecutor, card); err != nil {
		return nil, fmt.Errorf("create card: failed to insert card: %w", err)
	}

	view := toView(card)
	return &view, nil
}

// DeleteCard removes a card unconditionally: the stored data does not guard
// on balance or status, treating deletion as an administrative override.
func (s *cardService) DeleteCard(ctx context.Context, cardID int64) error {
	if err := s.cardRepo.DeleteByID(ctx, s.dbExecutor, cardID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrCardNotFound
		}
		return fmt.Errorf("delete card: failed to delete card %d: %w", cardID, err)
	}
	return nil
}

// ListOwnerCards retrieves a page of the given owner's cards.
func (s *cardService) ListOwnerCards(ctx context.Context, ownerID int64, limit, offset int) ([]CardView, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, s.dbExecutor, ownerID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("list cards: failed to get user %d: %w", ownerID, err)
	}

	cards, total, err := s.cardRepo.ListByOwner(ctx, s.dbExecutor, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cards: %w", err)
	}
	return toViews(cards), total, nil
}

// ListCardsByStatus retrieves a page of cards in the given status.
func (s *cardService) ListCardsByStatus(ctx context.Context, status domain.CardStatus, limit, offset int) ([]CardView, int64, error) {
	if !status.Valid() {
		return nil, 0, util.ErrInvalidInput
	}
	cards, total, err := s.cardRepo.ListByStatus(ctx, s.dbExecutor, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list cards by status: %w", err)
	}
	return toViews(cards), total, nil
}

// ListAllCards retrieves a page over every card in the system.
func (s *cardService) ListAllCards(ctx context.Context, limit, offset int) ([]CardView, int64, error) {
	cards, total, err := s.cardRepo.ListAll(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list all cards: %w", err)
	}
	return toViews(cards), total, nil
}

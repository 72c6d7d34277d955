// internal/service/transfer.go
package service

import (
	"context"
	"fmt"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/repository"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"

	"github.com/shopspring/decimal"
)

// Transfer moves amount between two ACTIVE cards owned by the same caller.
// Both balance updates happen inside one database transaction and are each
// conditioned on the card version observed at read time, so either both
// legs commit or neither does and money is never created or destroyed.
// A lost version race re-runs the whole attempt, bounded by
// maxConflictRetries; exhaustion surfaces ErrVersionConflict, which is
// retryable by the caller.
func (s *cardService) Transfer(ctx context.Context, ownerID, fromCardID, toCardID int64, amount decimal.Decimal) error {
	if fromCardID == toCardID {
		return util.ErrSameCardTransfer
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return util.ErrInvalidInput
	}

	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = s.transferOnce(ctx, ownerID, fromCardID, toCardID, amount)
		if !util.IsError(err, util.ErrVersionConflict) {
			return err
		}
	}
	return err
}

func (s *cardService) transferOnce(ctx context.Context, ownerID, fromCardID, toCardID int64, amount decimal.Decimal) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	// Both cards are handled in ascending id order regardless of direction.
	// The reads take no row locks; the conditional UPDATEs below do, and
	// they follow the same order, so two concurrent transfers over the same
	// pair cannot wait on each other's locks in a cycle. Both legs fail
	// with the same error kind, so the order does not change what the
	// caller observes.
	firstID, secondID := fromCardID, toCardID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.getActiveCard(ctx, txExecutor, ownerID, firstID)
	if err != nil {
		return err
	}
	second, err := s.getActiveCard(ctx, txExecutor, ownerID, secondID)
	if err != nil {
		return err
	}

	fromCard, toCard := first, second
	if fromCardID != firstID {
		fromCard, toCard = second, first
	}

	if fromCard.Balance.LessThan(amount) {
		return util.ErrInsufficientFunds
	}

	fromCard.Balance = fromCard.Balance.Sub(amount)
	toCard.Balance = toCard.Balance.Add(amount)
	fromCard.Touch()
	toCard.Touch()

	for _, card := range []*domain.Card{first, second} {
		if err := s.cardRepo.UpdateIfVersion(ctx, txExecutor, card); err != nil {
			if util.IsError(err, util.ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("transfer: failed to update card %d: %w", card.ID, err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}
	return nil
}

// getActiveCard resolves a card under the three-part condition id + owner +
// ACTIVE. All three failure causes collapse into ErrCardNotFound so the
// response does not reveal whether the card exists, is foreign or inactive.
func (s *cardService) getActiveCard(ctx context.Context, q repository.DBExecutor, ownerID, cardID int64) (*domain.Card, error) {
	card, err := s.cardRepo.GetActiveByOwnerAndID(ctx, q, ownerID, cardID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrCardNotFound
		}
		return nil, fmt.Errorf("transfer: failed to get card %d: %w", cardID, err)
	}
	return card, nil
}

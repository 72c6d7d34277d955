// internal/service/lifecycle.go
package service

import (
	"context"
	"fmt"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
)

// BlockCard moves the owner's card to BLOCKED. Blocking an already blocked
// card fails with ErrCardActionNotAllowed.
func (s *cardService) BlockCard(ctx context.Context, ownerID, cardID int64) (*CardView, error) {
	return s.transition(ctx, ownerID, cardID, (*domain.Card).Block)
}

// ActivateCard moves the owner's BLOCKED card back to ACTIVE. An EXPIRED
// card can never be reactivated and an ACTIVE card is rejected as well.
func (s *cardService) ActivateCard(ctx context.Context, ownerID, cardID int64) (*CardView, error) {
	return s.transition(ctx, ownerID, cardID, (*domain.Card).Activate)
}

// transition runs one read-validate-write cycle for a single-card status
// change, conditioned on the version observed at read time. A lost race
// re-runs the whole cycle (the state the transition was validated against
// is stale), bounded by maxConflictRetries.
//
// A card that does not exist or belongs to someone else fails uniformly
// with ErrCardNotFound so callers cannot probe which ids exist.
func (s *cardService) transition(ctx context.Context, ownerID, cardID int64, apply func(*domain.Card) error) (*CardView, error) {
	for attempt := 0; ; attempt++ {
		card, err := s.cardRepo.GetByOwnerAndID(ctx, s.dbExecutor, ownerID, cardID)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, util.ErrCardNotFound
			}
			return nil, fmt.Errorf("lifecycle: failed to get card %d: %w", cardID, err)
		}

		if err := apply(card); err != nil {
			return nil, err
		}
		card.Touch()

		err = s.cardRepo.UpdateIfVersion(ctx, s.dbExecutor, card)
		if err == nil {
			view := toView(card)
			return &view, nil
		}
		if !util.IsError(err, util.ErrVersionConflict) {
			return nil, fmt.Errorf("lifecycle: failed to update card %d: %w", cardID, err)
		}
		if attempt >= maxConflictRetries {
			return nil, err
		}
	}
}

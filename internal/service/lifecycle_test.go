// internal/service/lifecycle_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/domain"
	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
)

func ownedCard(id, ownerID int64, status domain.CardStatus) *domain.Card {
	return &domain.Card{
		ID:      id,
		OwnerID: ownerID,
		Status:  status,
		Balance: money("100.00"),
		Version: 1,
	}
}

func TestBlockCard(t *testing.T) {
	ownerID := int64(7)
	cardID := int64(11)

	t.Run("ActiveToBlocked", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusActive), nil).Once()
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(nil).Once()

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		require.NoError(t, err)
		assert.Equal(t, domain.CardStatusBlocked, view.Status)

		mock.AssertExpectationsForObjects(t, ts.cardRepo)
	})

	t.Run("ExpiredToBlocked", func(t *testing.T) {
		// Blocking an expired card is harmless and permitted.
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusExpired), nil).Once()
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(nil).Once()

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		require.NoError(t, err)
		assert.Equal(t, domain.CardStatusBlocked, view.Status)
	})

	t.Run("AlreadyBlocked", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusBlocked), nil).Once()

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		assert.ErrorIs(t, err, util.ErrCardActionNotAllowed)
		assert.Nil(t, view)
		ts.cardRepo.AssertNotCalled(t, "UpdateIfVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ForeignCardLooksMissing", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(nil, util.ErrNotFound).Once()

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		assert.ErrorIs(t, err, util.ErrCardNotFound)
		assert.Nil(t, view)
	})

	t.Run("RetriesOnVersionConflict", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		// First write loses the race; the cycle re-reads a fresh copy and
		// succeeds the second time around.
		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusActive), nil).Once()
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(util.ErrVersionConflict).Once()
		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusActive), nil).Once()
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(nil).Once()

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		require.NoError(t, err)
		assert.Equal(t, domain.CardStatusBlocked, view.Status)

		mock.AssertExpectationsForObjects(t, ts.cardRepo)
	})

	t.Run("SurfacesConflictWhenRetriesExhausted", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		// Initial attempt plus maxConflictRetries re-runs, all losing the race.
		for i := 0; i <= maxConflictRetries; i++ {
			ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusActive), nil).Once()
		}
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(util.ErrVersionConflict)

		view, err := ts.service.BlockCard(ctx, ownerID, cardID)

		assert.ErrorIs(t, err, util.ErrVersionConflict)
		assert.Nil(t, view)
	})
}

func TestActivateCard(t *testing.T) {
	ownerID := int64(7)
	cardID := int64(11)

	t.Run("BlockedToActive", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusBlocked), nil).Once()
		ts.cardRepo.On("UpdateIfVersion", ctx, mock.Anything, mock.AnythingOfType("*domain.Card")).Return(nil).Once()

		view, err := ts.service.ActivateCard(ctx, ownerID, cardID)

		require.NoError(t, err)
		assert.Equal(t, domain.CardStatusActive, view.Status)

		mock.AssertExpectationsForObjects(t, ts.cardRepo)
	})

	t.Run("ExpiredIsTerminal", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusExpired), nil)

		// However many times it is attempted, the answer does not change.
		for i := 0; i < 3; i++ {
			view, err := ts.service.ActivateCard(ctx, ownerID, cardID)
			assert.ErrorIs(t, err, util.ErrCardActionNotAllowed)
			assert.Nil(t, view)
		}
		ts.cardRepo.AssertNotCalled(t, "UpdateIfVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyActive", func(t *testing.T) {
		ctx := context.Background()
		ts := newTestService(t)

		ts.cardRepo.On("GetByOwnerAndID", ctx, mock.Anything, ownerID, cardID).Return(ownedCard(cardID, ownerID, domain.CardStatusActive), nil).Once()

		view, err := ts.service.ActivateCard(ctx, ownerID, cardID)

		assert.ErrorIs(t, err, util.ErrCardActionNotAllowed)
		assert.Nil(t, view)
	})
}

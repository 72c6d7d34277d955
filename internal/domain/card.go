// internal/domain/card.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations

	"github.com/Anastazzi-Grand/bank-rest-main/internal/util"
)

// CardStatus defines the lifecycle state of a bank card.
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// Valid reports whether s is one of the known card statuses.
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// Card represents a bank card owned by a user.
//
// NumberEncrypted holds the AEAD-protected primary account number and is
// never serialized; NumberMask is the only number representation that leaves
// the service. Version backs the optimistic conditional update in the store.
type Card struct {
	ID              int64           `db:"id" json:"id"`                   // Primary key, BIGSERIAL in DB
	OwnerID         int64           `db:"owner_id" json:"owner_id"`       // Foreign key to User, immutable after creation
	NumberEncrypted string          `db:"number_encrypted" json:"-"`      // key ID + nonce + ciphertext, base64
	NumberMask      string          `db:"number_mask" json:"number_mask"` // e.g. "**** **** **** 1234"
	ExpiryDate      time.Time       `db:"expiry_date" json:"expiry_date"` // Informational; expiry sweeps run outside this service
	Status          CardStatus      `db:"status" json:"status"`
	Balance         decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(15, 2) in DB, never negative
	Version         int64           `db:"version" json:"-"`       // Bumped on every conditional update
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NewCard creates a new Card instance. Status is always ACTIVE and the
// balance defaults to zero when initialBalance is nil.
func NewCard(ownerID int64, numberEncrypted, numberMask string, expiryDate time.Time, initialBalance *decimal.Decimal) *Card {
	balance := decimal.Zero
	if initialBalance != nil {
		balance = *initialBalance
	}
	now := time.Now().UTC()
	return &Card{
		OwnerID:         ownerID,
		NumberEncrypted: numberEncrypted,
		NumberMask:      numberMask,
		ExpiryDate:      expiryDate,
		Status:          CardStatusActive,
		Balance:         balance,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Touch refreshes UpdatedAt. Every mutation path calls it explicitly; there
// are no persistence-layer hooks doing this implicitly.
func (c *Card) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// Block transitions the card to BLOCKED. Allowed from any state except
// BLOCKED itself; blocking an expired card is harmless and permitted.
func (c *Card) Block() error {
	if c.Status == CardStatusBlocked {
		return util.ErrCardActionNotAllowed
	}
	c.Status = CardStatusBlocked
	return nil
}

// Activate transitions the card back to ACTIVE. Only a BLOCKED card may be
// activated: EXPIRED is terminal and an ACTIVE card has nothing to do.
func (c *Card) Activate() error {
	if c.Status == CardStatusExpired || c.Status == CardStatusActive {
		return util.ErrCardActionNotAllowed
	}
	c.Status = CardStatusActive
	return nil
}

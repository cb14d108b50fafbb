package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the per-user balance record kept in the snapshot file.
// Balance is only ever changed through the wallet manager; after any
// successful operation it is never negative.
type Wallet struct {
	UserID      string          `json:"user_id"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   string          `json:"created_at"`
	LastUpdated string          `json:"last_updated"`
}

// NewWallet returns a zero-balance wallet stamped with the current time.
func NewWallet(userID string) *Wallet {
	now := time.Now().Format(TimestampLayout)
	return &Wallet{
		UserID:      userID,
		Balance:     decimal.Zero,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// Touch updates the LastUpdated stamp.
func (w *Wallet) Touch() {
	w.LastUpdated = time.Now().Format(TimestampLayout)
}

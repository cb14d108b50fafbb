package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted by the gateway.
const (
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodNetBanking = "netbanking"
	MethodWallet     = "wallet"
)

// Transaction statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Wallet entry types. Raw gateway recharges carry no type.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// TimestampLayout is the canonical sort key format for ledger records.
// Fixed-width so lexicographic order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Transaction is one ledger record. Records are immutable once appended;
// a buyer debit and seller credit for the same order share ID and
// SettlementID to correlate the two halves.
type Transaction struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Username     string           `json:"username,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Method       string           `json:"method"`
	Status       string           `json:"status"`
	Type         string           `json:"type,omitempty"`
	Description  string           `json:"description"`
	Date         string           `json:"date"`
	Time         string           `json:"time"`
	Timestamp    string           `json:"timestamp"`
	NewBalance   *decimal.Decimal `json:"new_balance,omitempty"`
	SettlementID string           `json:"settlement_id,omitempty"`
}

// StampNow fills the derived date/time fields from the local clock.
func (t *Transaction) StampNow() {
	now := time.Now()
	t.Date = now.Format("2006-01-02")
	t.Time = now.Format("15:04:05")
	t.Timestamp = now.Format(TimestampLayout)
}

// IsDebit reports whether the record is a wallet debit.
func (t *Transaction) IsDebit() bool { return t.Type == TypeDebit }

// IsCredit reports whether the record is a wallet credit.
func (t *Transaction) IsCredit() bool { return t.Type == TypeCredit }

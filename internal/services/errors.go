package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount rejects non-positive amounts before any I/O happens.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// InvalidInstrumentError reports which card validation rule failed.
type InvalidInstrumentError struct {
	Reason string
}

func (e *InvalidInstrumentError) Error() string {
	return "invalid payment instrument: " + e.Reason
}

// InsufficientBalanceError carries both sides of a failed debit so the
// caller can tell the user exactly how short they are.
type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// TransactionNotFoundError is returned after a full ledger scan finds no match.
type TransactionNotFoundError struct {
	ID string
}

func (e *TransactionNotFoundError) Error() string {
	return "transaction not found: " + e.ID
}

// IOError wraps a storage read/write failure. Fatal to the current operation
// but never to the process.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

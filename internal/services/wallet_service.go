package services

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/skillverse/backend/internal/audit"
	"github.com/skillverse/backend/internal/models"
)

// WalletManager orchestrates the payment gateway and the wallet store. It
// owns neither, but it is the only component allowed to mutate balances,
// and it guarantees that a debit/credit ledger record is written exactly
// when the corresponding wallet mutation was applied.
//
// All mutating operations are serialized behind one mutex so a balance
// check and the delta it authorizes cannot be split by a concurrent call.
type WalletManager struct {
	gateway *GatewayService
	store   BalanceStore
	audit   *audit.Logger
	mu      sync.Mutex
}

// BalanceStore is the slice of WalletStore the manager depends on.
type BalanceStore interface {
	GetBalance(userID string) (decimal.Decimal, error)
	GetOrDefault(userID string) (*models.Wallet, error)
	Create(userID string, initialBalance decimal.Decimal) (*models.Wallet, error)
	ApplyDelta(userID string, delta decimal.Decimal) (*models.Wallet, error)
}

func NewWalletManager(gateway *GatewayService, store BalanceStore) *WalletManager {
	return &WalletManager{
		gateway: gateway,
		store:   store,
		audit:   audit.NewLogger(),
	}
}

// GetBalance returns the user's current balance, zero when no wallet exists.
func (m *WalletManager) GetBalance(userID string) (decimal.Decimal, error) {
	return m.store.GetBalance(userID)
}

// GetWallet returns the stored wallet record, or a fresh zero-balance one.
func (m *WalletManager) GetWallet(userID string) (*models.Wallet, error) {
	return m.store.GetOrDefault(userID)
}

// CreateWallet persists a wallet with a starting balance. Idempotent.
func (m *WalletManager) CreateWallet(userID string, initialBalance decimal.Decimal) (*models.Wallet, error) {
	return m.store.Create(userID, initialBalance)
}

// AddMoney recharges a wallet through the payment gateway. The wallet is
// only credited when the gateway reports success; a failed payment comes
// back as the failed record with the wallet untouched.
func (m *WalletManager) AddMoney(userID string, amount decimal.Decimal, method, description string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txn, err := m.gateway.ProcessPayment(amount, method, userID, description)
	if err != nil {
		return nil, err
	}
	if txn.Status != models.StatusSuccess {
		m.audit.LogWalletOp(txn.ID, userID, "RECHARGE", amount, "FAILED")
		return txn, nil
	}

	w, err := m.store.ApplyDelta(userID, amount)
	if err != nil {
		return nil, err
	}
	balance := w.Balance
	txn.NewBalance = &balance

	m.audit.LogWalletOp(txn.ID, userID, "RECHARGE", amount, "SUCCESS")
	return txn, nil
}

// DeductMoney debits a wallet for a purchase. The insufficient-balance
// check and the debit are a single critical section; a balance exactly
// equal to the amount is allowed.
func (m *WalletManager) DeductMoney(userID string, amount decimal.Decimal, description, username string) (*models.Transaction, error) {
	return m.deduct(userID, amount, description, username, "")
}

func (m *WalletManager) deduct(userID string, amount decimal.Decimal, description, username, settlementID string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	balance, err := m.store.GetBalance(userID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, &InsufficientBalanceError{Required: amount, Available: balance}
	}

	w, err := m.store.ApplyDelta(userID, amount.Neg())
	if err != nil {
		return nil, err
	}

	txn := m.newWalletRecord(userID, username, amount, models.TypeDebit, description, m.gateway.GenerateTransactionID(), settlementID, w.Balance)
	if err := m.gateway.ledger.Append(txn); err != nil {
		m.audit.LogError(txn.ID, userID, err)
		return nil, err
	}

	m.audit.LogWalletOp(txn.ID, userID, "DEBIT", amount, "SUCCESS")
	return txn, nil
}

// CreditSeller credits a seller's wallet, creating it when absent. When
// transactionID carries the buyer's debit id, both ledger halves of the
// order share it.
func (m *WalletManager) CreditSeller(userID string, amount decimal.Decimal, description, username, transactionID string) (*models.Transaction, error) {
	return m.credit(userID, amount, description, username, transactionID, "")
}

// credit applies the wallet delta, then appends the ledger record. When the
// append fails after the delta has committed, the record is returned together
// with the error so callers can retry the append without paying twice.
func (m *WalletManager) credit(userID string, amount decimal.Decimal, description, username, transactionID, settlementID string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.store.ApplyDelta(userID, amount)
	if err != nil {
		return nil, err
	}

	if transactionID == "" {
		transactionID = m.gateway.GenerateTransactionID()
	}
	txn := m.newWalletRecord(userID, username, amount, models.TypeCredit, description, transactionID, settlementID, w.Balance)
	if err := m.gateway.ledger.Append(txn); err != nil {
		m.audit.LogError(txn.ID, userID, err)
		return txn, err
	}

	m.audit.LogWalletOp(txn.ID, userID, "CREDIT", amount, "SUCCESS")
	return txn, nil
}

// GetTransactionHistory returns the user's wallet history, newest first.
func (m *WalletManager) GetTransactionHistory(userID string) ([]models.Transaction, error) {
	return m.gateway.GetUserTransactions(userID)
}

func (m *WalletManager) newWalletRecord(userID, username string, amount decimal.Decimal, entryType, description, id, settlementID string, balance decimal.Decimal) *models.Transaction {
	if username == "" {
		username = fmt.Sprintf("User #%s", userID)
	}
	txn := &models.Transaction{
		ID:           id,
		UserID:       userID,
		Username:     username,
		Amount:       amount,
		Method:       models.MethodWallet,
		Status:       models.StatusSuccess,
		Type:         entryType,
		Description:  description,
		SettlementID: settlementID,
		NewBalance:   &balance,
	}
	txn.StampNow()
	return txn
}

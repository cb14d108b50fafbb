package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/skillverse/backend/internal/models"
)

func newTestLedger(t *testing.T) *LedgerService {
	t.Helper()
	ledger, err := NewLedgerService(filepath.Join(t.TempDir(), "transactions.jsonl"))
	require.NoError(t, err)
	return ledger
}

func newTestStore(t *testing.T) *WalletStore {
	t.Helper()
	store, err := NewWalletStore(filepath.Join(t.TempDir(), "wallets.jsonl"))
	require.NoError(t, err)
	return store
}

func newTestManager(t *testing.T) (*WalletManager, *WalletStore, *LedgerService) {
	t.Helper()
	ledger := newTestLedger(t)
	store := newTestStore(t)
	return NewWalletManager(NewGatewayService(ledger), store), store, ledger
}

// flakyStore delegates to a real store but fails every ApplyDelta for one
// user, simulating a storage fault that hits mid-settlement.
type flakyStore struct {
	BalanceStore
	failFor string
}

func (s *flakyStore) ApplyDelta(userID string, delta decimal.Decimal) (*models.Wallet, error) {
	if userID == s.failFor {
		return nil, &IOError{Op: "wallet write", Err: errors.New("disk full")}
	}
	return s.BalanceStore.ApplyDelta(userID, delta)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

package services

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/skillverse/backend/internal/models"
	"github.com/skillverse/backend/internal/storage"
)

// WalletStore owns the wallet snapshot file: one JSON wallet record per
// line, rewritten wholesale on every mutation. The read-modify-write cycle
// is serialized behind a single mutex so concurrent deltas can never be
// silently lost, and the rewrite itself is atomic (temp file + rename).
type WalletStore struct {
	path string
	mu   sync.Mutex
}

// NewWalletStore opens (creating if needed) the snapshot file at path.
func NewWalletStore(path string) (*WalletStore, error) {
	if err := storage.EnsureFile(path); err != nil {
		return nil, &IOError{Op: "wallet create", Err: err}
	}
	return &WalletStore{path: path}, nil
}

// GetBalance returns the stored balance, or zero when no wallet exists.
// Absence is not an error.
func (s *WalletStore) GetBalance(userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.readAll()
	if err != nil {
		return decimal.Zero, err
	}
	if w, ok := wallets[userID]; ok {
		return w.Balance, nil
	}
	return decimal.Zero, nil
}

// GetOrDefault returns the stored wallet record, or a fresh zero-balance
// record (not persisted) when absent.
func (s *WalletStore) GetOrDefault(userID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if w, ok := wallets[userID]; ok {
		return w, nil
	}
	return models.NewWallet(userID), nil
}

// Create persists a new wallet with the given starting balance. Idempotent:
// an existing wallet is returned unchanged.
func (s *WalletStore) Create(userID string, initialBalance decimal.Decimal) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if w, ok := wallets[userID]; ok {
		return w, nil
	}

	w := models.NewWallet(userID)
	w.Balance = initialBalance
	wallets[userID] = w
	if err := s.writeAll(wallets); err != nil {
		return nil, err
	}
	return w, nil
}

// ApplyDelta adjusts a wallet's balance by delta (negative to debit),
// creating the wallet at zero first when absent, and rewrites the snapshot.
// Returns the updated record.
func (s *WalletStore) ApplyDelta(userID string, delta decimal.Decimal) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets, err := s.readAll()
	if err != nil {
		return nil, err
	}

	w, ok := wallets[userID]
	if !ok {
		w = models.NewWallet(userID)
		wallets[userID] = w
	}
	w.Balance = w.Balance.Add(delta)
	w.Touch()

	if err := s.writeAll(wallets); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WalletStore) readAll() (map[string]*models.Wallet, error) {
	wallets := map[string]*models.Wallet{}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return wallets, nil
		}
		return nil, &IOError{Op: "wallet read", Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var w models.Wallet
		if err := json.Unmarshal(line, &w); err != nil {
			continue
		}
		wallets[w.UserID] = &w
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "wallet read", Err: err}
	}
	return wallets, nil
}

func (s *WalletStore) writeAll(wallets map[string]*models.Wallet) error {
	var buf bytes.Buffer
	for _, w := range wallets {
		line, err := json.Marshal(w)
		if err != nil {
			return &IOError{Op: "wallet encode", Err: err}
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := storage.WriteAtomic(s.path, buf.Bytes()); err != nil {
		return &IOError{Op: "wallet write", Err: err}
	}
	return nil
}

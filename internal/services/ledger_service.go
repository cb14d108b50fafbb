package services

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/skillverse/backend/internal/models"
	"github.com/skillverse/backend/internal/storage"
)

// LedgerService is the append-only transaction log. Each record is one
// independently parseable JSON line; the file grows monotonically and is
// never rewritten or compacted. Malformed lines are skipped on read: the
// ledger favors availability of aggregate views over strict validation of
// historical data.
type LedgerService struct {
	path string
	mu   sync.Mutex
}

// NewLedgerService opens (creating if needed) the ledger file at path.
func NewLedgerService(path string) (*LedgerService, error) {
	if err := storage.EnsureFile(path); err != nil {
		return nil, &IOError{Op: "ledger create", Err: err}
	}
	return &LedgerService{path: path}, nil
}

// Append writes one record as a single atomic line. Concurrent appends are
// serialized so record boundaries are always preserved.
func (l *LedgerService) Append(txn *models.Transaction) error {
	line, err := json.Marshal(txn)
	if err != nil {
		return &IOError{Op: "ledger encode", Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := storage.AppendLine(l.path, line); err != nil {
		return &IOError{Op: "ledger append", Err: err}
	}
	return nil
}

// Find scans the whole log and returns the first record whose ID matches.
// A non-empty userID additionally filters by owner, which disambiguates the
// shared IDs of a buyer/seller settlement pair.
func (l *LedgerService) Find(id, userID string) (*models.Transaction, error) {
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		if userID != "" && records[i].UserID != userID {
			continue
		}
		return &records[i], nil
	}
	return nil, &TransactionNotFoundError{ID: id}
}

// ListByUser returns every record owned by userID, newest first.
func (l *LedgerService) ListByUser(userID string) ([]models.Transaction, error) {
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}
	filtered := []models.Transaction{}
	for _, txn := range records {
		if txn.UserID == userID {
			filtered = append(filtered, txn)
		}
	}
	sortNewestFirst(filtered)
	return filtered, nil
}

// ListAll returns every record in the log, newest first.
func (l *LedgerService) ListAll() ([]models.Transaction, error) {
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(records)
	return records, nil
}

func (l *LedgerService) readAll() ([]models.Transaction, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Transaction{}, nil
		}
		return nil, &IOError{Op: "ledger read", Err: err}
	}
	defer f.Close()

	records := []models.Transaction{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var txn models.Transaction
		if err := json.Unmarshal(line, &txn); err != nil {
			// Corrupt or partially written line; skip it.
			continue
		}
		records = append(records, txn)
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "ledger read", Err: err}
	}
	return records, nil
}

// Timestamps use a fixed-width layout so string comparison is enough.
func sortNewestFirst(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp > txns[j].Timestamp
	})
}

package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skillverse/backend/internal/models"
)

// FilterByDateRange keeps transactions whose date falls within
// [startDate, endDate], both in YYYY-MM-DD form.
func FilterByDateRange(txns []models.Transaction, startDate, endDate string) []models.Transaction {
	filtered := []models.Transaction{}
	for _, txn := range txns {
		if txn.Date >= startDate && txn.Date <= endDate {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// FilterByStatus keeps transactions with the given status.
func FilterByStatus(txns []models.Transaction, status string) []models.Transaction {
	filtered := []models.Transaction{}
	for _, txn := range txns {
		if txn.Status == status {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// ExportCSV renders transactions as CSV text. Commas inside descriptions
// are replaced with semicolons so every row stays seven plain fields.
func ExportCSV(txns []models.Transaction) string {
	if len(txns) == 0 {
		return "No transactions to export"
	}

	var b strings.Builder
	b.WriteString("Transaction ID,Amount,Status,Method,Description,Date,Time\n")
	for _, txn := range txns {
		row := []string{
			txn.ID,
			txn.Amount.String(),
			txn.Status,
			txn.Method,
			strings.ReplaceAll(txn.Description, ",", ";"),
			txn.Date,
			txn.Time,
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary aggregates a transaction list for dashboard views.
type Summary struct {
	Total         int             `json:"total"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
	TotalCredited decimal.Decimal `json:"total_credited"`
}

// Summarize tallies counts and wallet flow totals. Only successful records
// contribute to the debit/credit totals.
func Summarize(txns []models.Transaction) Summary {
	s := Summary{
		TotalDebited:  decimal.Zero,
		TotalCredited: decimal.Zero,
	}
	for _, txn := range txns {
		s.Total++
		if txn.Status != models.StatusSuccess {
			s.Failed++
			continue
		}
		s.Succeeded++
		switch txn.Type {
		case models.TypeDebit:
			s.TotalDebited = s.TotalDebited.Add(txn.Amount)
		case models.TypeCredit:
			s.TotalCredited = s.TotalCredited.Add(txn.Amount)
		}
	}
	return s
}

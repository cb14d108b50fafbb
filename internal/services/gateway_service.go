package services

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/skillverse/backend/internal/models"
)

// GatewayService simulates an upstream payment processor. Authorization
// outcomes are driven by a configured success rate (1.0 by default, so
// payments always succeed); every processed payment is written to the
// transaction ledger regardless of outcome. The gateway never reads or
// writes wallet balances.
type GatewayService struct {
	ledger      *LedgerService
	successRate float64
}

// NewGatewayService builds a gateway backed by the given ledger.
// gateway.success_rate can be lowered in config to exercise failure paths.
func NewGatewayService(ledger *LedgerService) *GatewayService {
	viper.SetDefault("gateway.success_rate", 1.0)
	return &GatewayService{
		ledger:      ledger,
		successRate: viper.GetFloat64("gateway.success_rate"),
	}
}

// ValidateInstrument checks card details: 16 digits after stripping spaces,
// a 3-digit CVV and an MM/YY expiry that is not in the past. This check is
// advisory; ProcessPayment never calls it on its own.
func (g *GatewayService) ValidateInstrument(cardNumber, expiry, cvv string) error {
	number := strings.ReplaceAll(cardNumber, " ", "")
	if len(number) != 16 {
		return &InvalidInstrumentError{Reason: "card number must be 16 digits"}
	}
	if _, err := strconv.ParseUint(number, 10, 64); err != nil {
		return &InvalidInstrumentError{Reason: "card number must contain only digits"}
	}

	if len(cvv) != 3 {
		return &InvalidInstrumentError{Reason: "CVV must be 3 digits"}
	}
	// ParseUint rejects sign characters that Atoi would let through.
	if _, err := strconv.ParseUint(cvv, 10, 16); err != nil {
		return &InvalidInstrumentError{Reason: "CVV must contain only digits"}
	}

	if len(expiry) != 5 || expiry[2] != '/' {
		return &InvalidInstrumentError{Reason: "expiry date must be in MM/YY format"}
	}
	month, errM := strconv.Atoi(expiry[:2])
	year, errY := strconv.Atoi(expiry[3:])
	if errM != nil || errY != nil {
		return &InvalidInstrumentError{Reason: "expiry date must be in MM/YY format"}
	}
	if month < 1 || month > 12 {
		return &InvalidInstrumentError{Reason: "invalid expiry month"}
	}

	now := time.Now()
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return &InvalidInstrumentError{Reason: "card has expired"}
	}

	return nil
}

// GenerateTransactionID produces TXN + YYYYMMDDHHMMSS + a 3-digit random
// suffix. Two calls in the same second can collide; settlement pairs are
// additionally correlated by a separate settlement id, and ledger lookups
// can disambiguate by user.
func (g *GatewayService) GenerateTransactionID() string {
	return fmt.Sprintf("TXN%s%d", time.Now().Format("20060102150405"), 100+rand.Intn(900))
}

// ProcessPayment simulates an authorization, appends the resulting record
// to the ledger and returns it. Wallet balances are the caller's concern.
func (g *GatewayService) ProcessPayment(amount decimal.Decimal, method, userID, description string) (*models.Transaction, error) {
	status := models.StatusFailed
	if rand.Float64() < g.successRate {
		status = models.StatusSuccess
	}

	txn := &models.Transaction{
		ID:          g.GenerateTransactionID(),
		UserID:      userID,
		Amount:      amount,
		Method:      method,
		Status:      status,
		Description: description,
	}
	txn.StampNow()

	if err := g.ledger.Append(txn); err != nil {
		return nil, err
	}

	log.Printf("[GATEWAY] Processed payment %s for user %s: %s %s via %s",
		txn.ID, userID, status, amount.StringFixed(2), method)
	return txn, nil
}

// GetTransaction looks a record up by id, optionally scoped to a user.
func (g *GatewayService) GetTransaction(id, userID string) (*models.Transaction, error) {
	return g.ledger.Find(id, userID)
}

// GetUserTransactions returns a user's records, newest first.
func (g *GatewayService) GetUserTransactions(userID string) ([]models.Transaction, error) {
	return g.ledger.ListByUser(userID)
}

// GetAllTransactions returns every ledger record, newest first.
func (g *GatewayService) GetAllTransactions() ([]models.Transaction, error) {
	return g.ledger.ListAll()
}

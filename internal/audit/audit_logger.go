package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount,omitempty"`
	Status        string    `json:"status"`
	Details       any       `json:"details,omitempty"`
}

// Logger emits one JSON audit line per wallet-affecting event.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogWalletOp(transactionID, userID, op string, amount decimal.Decimal, status string) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     op,
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        amount.StringFixed(2),
		Status:        status,
	})
}

func (a *Logger) LogSettlement(settlementID, transactionID, buyerID, sellerID string, amount decimal.Decimal, status string) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "SETTLEMENT",
		TransactionID: transactionID,
		Amount:        amount.StringFixed(2),
		Status:        status,
		Details: map[string]string{
			"settlement_id": settlementID,
			"buyer_id":      buyerID,
			"seller_id":     sellerID,
		},
	})
}

func (a *Logger) LogError(transactionID, userID string, err error) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "ERROR",
		TransactionID: transactionID,
		UserID:        userID,
		Status:        "FAILED",
		Details:       map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}

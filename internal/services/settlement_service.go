package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/skillverse/backend/internal/audit"
	"github.com/skillverse/backend/internal/models"
)

// ReconciliationQueue is the Redis list holding seller credits that failed
// after the buyer's debit already committed.
const ReconciliationQueue = "reconciliation_queue"

// ManualFixTag marks descriptions of credits replayed by reconciliation.
const ManualFixTag = "[MANUAL FIX]"

// SettlementService runs the paired debit+credit sequence for one order.
// The platform keeps a fee cut of the price; the seller receives the rest.
//
// The partial-failure policy is deliberate: once the buyer's debit has
// committed it is never rolled back. A failed seller credit is queued for
// reconciliation and the buyer's checkout still succeeds.
type SettlementService struct {
	wallets    *WalletManager
	ledger     *LedgerService
	redis      *redis.Client
	iso        *ISO20022Service
	audit      *audit.Logger
	feePercent decimal.Decimal
}

// SettlementRequest describes one order to settle.
type SettlementRequest struct {
	BuyerID     string
	BuyerName   string
	SellerID    string
	SellerName  string
	Price       decimal.Decimal
	OrderRef    string
	ServiceName string
}

// SettlementResult reports both halves of a settlement. SellerTxn is nil
// and CreditPending true when the credit leg failed and was queued.
type SettlementResult struct {
	SettlementID  string              `json:"settlement_id"`
	BuyerTxn      *models.Transaction `json:"buyer_transaction"`
	SellerTxn     *models.Transaction `json:"seller_transaction,omitempty"`
	SellerAmount  decimal.Decimal     `json:"seller_amount"`
	PlatformFee   decimal.Decimal     `json:"platform_fee"`
	CreditPending bool                `json:"credit_pending"`
}

// pendingCredit is the reconciliation queue entry for a failed credit leg.
type pendingCredit struct {
	SettlementID  string          `json:"settlement_id"`
	TransactionID string          `json:"transaction_id"`
	SellerID      string          `json:"seller_id"`
	SellerName    string          `json:"seller_name"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// NewSettlementService builds the settlement orchestrator. redisClient may
// be nil; queued reconciliation then degrades to ledger-scan reporting.
func NewSettlementService(wallets *WalletManager, ledger *LedgerService, redisClient *redis.Client) *SettlementService {
	viper.SetDefault("settlement.fee_percent", 0.10)
	return &SettlementService{
		wallets:    wallets,
		ledger:     ledger,
		redis:      redisClient,
		iso:        NewISO20022Service(),
		audit:      audit.NewLogger(),
		feePercent: decimal.NewFromFloat(viper.GetFloat64("settlement.fee_percent")),
	}
}

// FeePercent returns the configured platform fee rate.
func (s *SettlementService) FeePercent() decimal.Decimal {
	return s.feePercent
}

// SettleOrder debits the buyer for the full price, then credits the seller
// with the price minus the platform fee, both halves sharing the buyer's
// transaction id plus a settlement id. A debit failure aborts the order; a
// credit failure after a committed debit is queued for reconciliation and
// does not fail the checkout.
func (s *SettlementService) SettleOrder(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	balance, err := s.wallets.GetBalance(req.BuyerID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(req.Price) {
		return nil, &InsufficientBalanceError{Required: req.Price, Available: balance}
	}

	settlementID := uuid.New().String()
	buyerDesc := fmt.Sprintf("Service Purchase: %s (Order #%s)", req.ServiceName, req.OrderRef)

	buyerTxn, err := s.wallets.deduct(req.BuyerID, req.Price, buyerDesc, req.BuyerName, settlementID)
	if err != nil {
		// Order must be cancelled by the caller; no credit is attempted.
		s.audit.LogSettlement(settlementID, "", req.BuyerID, req.SellerID, req.Price, "DEBIT_FAILED")
		return nil, err
	}

	sellerAmount := req.Price.Mul(decimal.NewFromInt(1).Sub(s.feePercent))
	fee := req.Price.Sub(sellerAmount)
	sellerDesc := fmt.Sprintf("Payment Received: %s (Order #%s) - After %s%% platform fee",
		req.ServiceName, req.OrderRef, s.feePercent.Mul(decimal.NewFromInt(100)).String())

	result := &SettlementResult{
		SettlementID: settlementID,
		BuyerTxn:     buyerTxn,
		SellerAmount: sellerAmount,
		PlatformFee:  fee,
	}

	sellerTxn, err := s.wallets.credit(req.SellerID, sellerAmount, sellerDesc, req.SellerName, buyerTxn.ID, settlementID)
	if err != nil && sellerTxn == nil {
		// Nothing reached the seller. Buyer has paid; keep the state
		// observable and recoverable.
		log.Printf("[SETTLEMENT] Seller credit failed for order #%s (settlement %s): %v",
			req.OrderRef, settlementID, err)
		s.audit.LogError(buyerTxn.ID, req.SellerID, err)
		s.queueForReconciliation(ctx, pendingCredit{
			SettlementID:  settlementID,
			TransactionID: buyerTxn.ID,
			SellerID:      req.SellerID,
			SellerName:    req.SellerName,
			Amount:        sellerAmount,
			Description:   sellerDesc,
		})
		result.CreditPending = true
		return result, nil
	}
	if err != nil {
		// The seller was paid but the ledger line failed. Queueing the credit
		// now would pay the seller twice; retry only the append.
		if aerr := s.ledger.Append(sellerTxn); aerr != nil {
			log.Printf("[SETTLEMENT] Seller credit for order #%s applied but unrecorded (settlement %s): %v",
				req.OrderRef, settlementID, aerr)
			result.SellerTxn = sellerTxn
			return result, nil
		}
	}

	result.SellerTxn = sellerTxn
	s.audit.LogSettlement(settlementID, buyerTxn.ID, req.BuyerID, req.SellerID, req.Price, "SUCCESS")

	s.exportSettlement(settlementID, buyerTxn, req.SellerName, sellerAmount)
	return result, nil
}

// ReconcilePending replays queued seller credits. Each replayed credit is
// tagged in its description so invoices can strip the marker. Returns the
// number of credits applied.
func (s *SettlementService) ReconcilePending(ctx context.Context) (int, error) {
	if s.redis == nil {
		return 0, nil
	}

	applied := 0
	for {
		data, err := s.redis.LPop(ctx, ReconciliationQueue).Bytes()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return applied, &IOError{Op: "reconciliation dequeue", Err: err}
		}

		var entry pendingCredit
		if err := json.Unmarshal(data, &entry); err != nil {
			log.Printf("[SETTLEMENT] Dropping malformed reconciliation entry: %v", err)
			continue
		}

		// An earlier replay may have committed before its outcome was
		// recorded; crediting again would pay the seller twice.
		if prior, err := s.ledger.Find(entry.TransactionID, entry.SellerID); err == nil && prior.IsCredit() {
			log.Printf("[SETTLEMENT] Settlement %s already credited, dropping queue entry", entry.SettlementID)
			continue
		}

		desc := entry.Description + " " + ManualFixTag
		txn, err := s.wallets.credit(entry.SellerID, entry.Amount, desc, entry.SellerName, entry.TransactionID, entry.SettlementID)
		if err != nil && txn == nil {
			// Nothing committed. Put it back and stop; a broken store would
			// spin otherwise.
			s.redis.RPush(ctx, ReconciliationQueue, data)
			return applied, err
		}
		if err != nil {
			// Delta committed, ledger line missing. Requeueing would credit
			// the seller twice; retry only the append.
			if aerr := s.ledger.Append(txn); aerr != nil {
				log.Printf("[SETTLEMENT] Settlement %s credited but unrecorded: %v", entry.SettlementID, aerr)
				return applied + 1, aerr
			}
		}

		s.audit.LogSettlement(entry.SettlementID, entry.TransactionID, "", entry.SellerID, entry.Amount, "RECONCILED")
		applied++
	}
	return applied, nil
}

// FindUnsettledDebits scans the ledger for settlement debits that have no
// matching credit sharing the same transaction id. These are the orders in
// the "buyer paid, seller not yet credited" state.
func (s *SettlementService) FindUnsettledDebits() ([]models.Transaction, error) {
	records, err := s.ledger.ListAll()
	if err != nil {
		return nil, err
	}

	credited := map[string]bool{}
	for _, txn := range records {
		if txn.IsCredit() {
			credited[txn.ID] = true
		}
	}

	orphans := []models.Transaction{}
	for _, txn := range records {
		if txn.IsDebit() && txn.SettlementID != "" && !credited[txn.ID] {
			orphans = append(orphans, txn)
		}
	}
	return orphans, nil
}

func (s *SettlementService) queueForReconciliation(ctx context.Context, entry pendingCredit) {
	if s.redis == nil {
		log.Printf("[SETTLEMENT] No Redis; settlement %s awaits ledger-scan reconciliation", entry.SettlementID)
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[SETTLEMENT] Failed to encode reconciliation entry: %v", err)
		return
	}
	if err := s.redis.RPush(ctx, ReconciliationQueue, data).Err(); err != nil {
		log.Printf("[SETTLEMENT] Failed to queue settlement %s for reconciliation: %v", entry.SettlementID, err)
	}
}

// exportSettlement converts a completed settlement into a pacs.008 message
// for the downstream audit trail. Failures here never affect the order.
func (s *SettlementService) exportSettlement(settlementID string, debit *models.Transaction, sellerName string, sellerAmount decimal.Decimal) {
	doc, err := s.iso.ConvertSettlement(settlementID, debit, sellerName, sellerAmount.InexactFloat64())
	if err != nil {
		log.Printf("[SETTLEMENT] Failed to convert settlement %s: %v", settlementID, err)
		return
	}
	if err := s.iso.SendToSettlement(doc); err != nil {
		log.Printf("[SETTLEMENT] Failed to send settlement %s: %v", settlementID, err)
	}
}

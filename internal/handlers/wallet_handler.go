package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/skillverse/backend/internal/middleware"
	"github.com/skillverse/backend/internal/services"
)

const maxBodyBytes = 1_048_576 // 1 MB

// WalletHandler exposes the wallet manager and gateway over HTTP.
type WalletHandler struct {
	wallets   *services.WalletManager
	gateway   *services.GatewayService
	validator *services.ValidationHelper
}

func NewWalletHandler(wallets *services.WalletManager, gateway *services.GatewayService) *WalletHandler {
	return &WalletHandler{
		wallets:   wallets,
		gateway:   gateway,
		validator: services.NewValidationHelper(),
	}
}

// GetBalance returns the current wallet balance
// @Summary Get wallet balance
// @Description Current balance for the authenticated user, zero if no wallet exists
// @Tags wallet
// @Produce json
// @Success 200 {object} object{user_id=string,balance=string}
// @Failure 500 {object} services.ErrorResponse
// @Router /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	balance, err := h.wallets.GetBalance(userID)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"user_id": userID,
		"balance": balance.StringFixed(2),
	})
}

type addMoneyRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=card upi netbanking wallet"`
	Description string  `json:"description" validate:"max=200"`
}

// AddMoney recharges the wallet
// @Summary Add money to wallet
// @Description Process a recharge through the payment gateway and credit the wallet on success
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body addMoneyRequest true "Recharge details"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse
// @Router /wallet/add [post]
func (h *WalletHandler) AddMoney(w http.ResponseWriter, r *http.Request) {
	var req addMoneyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Description == "" {
		req.Description = "Wallet Recharge"
	}

	txn, err := h.wallets.AddMoney(middleware.UserID(r.Context()), decimal.NewFromFloat(req.Amount), req.Method, req.Description)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

type deductMoneyRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=200"`
	Username    string  `json:"username" validate:"max=80"`
}

// DeductMoney debits the wallet
// @Summary Deduct money from wallet
// @Description Debit the wallet for a purchase; fails when the balance is insufficient
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body deductMoneyRequest true "Debit details"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse
// @Router /wallet/deduct [post]
func (h *WalletHandler) DeductMoney(w http.ResponseWriter, r *http.Request) {
	var req deductMoneyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Description == "" {
		req.Description = "Service Purchase"
	}

	txn, err := h.wallets.DeductMoney(middleware.UserID(r.Context()), decimal.NewFromFloat(req.Amount), req.Description, req.Username)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

// ListTransactions returns the wallet history
// @Summary List wallet transactions
// @Description Transaction history for the authenticated user, newest first
// @Tags wallet
// @Produce json
// @Success 200 {object} object{transactions=[]models.Transaction,count=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	txns, err := h.wallets.GetTransactionHistory(userID)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	// Optional status filter, e.g. ?status=success
	if status := r.URL.Query().Get("status"); status != "" {
		txns = services.FilterByStatus(txns, status)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"transactions": txns,
		"count":        len(txns),
		"summary":      services.Summarize(txns),
	})
}

// ExportTransactions downloads the history as CSV
// @Summary Export transactions as CSV
// @Description Download the authenticated user's transaction history as a CSV file
// @Tags wallet
// @Produce text/csv
// @Success 200 {string} string
// @Failure 500 {object} services.ErrorResponse
// @Router /wallet/transactions/export [get]
func (h *WalletHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	txns, err := h.wallets.GetTransactionHistory(userID)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=transactions_%s.csv", userID))
	io.WriteString(w, services.ExportCSV(txns))
}

type validateCardRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// ValidateCard checks card details
// @Summary Validate a payment card
// @Description Advisory validation of card number, expiry and CVV formats
// @Tags payments
// @Accept json
// @Produce json
// @Param request body validateCardRequest true "Card details"
// @Success 200 {object} object{valid=bool}
// @Failure 400 {object} services.ErrorResponse
// @Router /payments/validate-card [post]
func (h *WalletHandler) ValidateCard(w http.ResponseWriter, r *http.Request) {
	var req validateCardRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.gateway.ValidateInstrument(req.CardNumber, req.Expiry, req.CVV); err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"valid": true})
}

// GetTransaction looks up one ledger record
// @Summary Get transaction by ID
// @Description Retrieve one of the authenticated user's transactions
// @Tags wallet
// @Produce json
// @Param txnId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{txnId} [get]
func (h *WalletHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	txnID := chi.URLParam(r, "txnId")

	txn, err := h.gateway.GetTransaction(txnID, userID)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

// decode reads a single JSON object body into dst and validates it,
// answering the request itself when anything is off.
func (h *WalletHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := h.validator.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

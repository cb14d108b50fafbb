package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/skillverse/backend/internal/middleware"
	"github.com/skillverse/backend/internal/services"
)

// SettlementHandler drives order checkout and reconciliation.
type SettlementHandler struct {
	settlement *services.SettlementService
	validator  *services.ValidationHelper
}

func NewSettlementHandler(settlement *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlement: settlement,
		validator:  services.NewValidationHelper(),
	}
}

type checkoutRequest struct {
	SellerID    string  `json:"seller_id" validate:"required"`
	SellerName  string  `json:"seller_name" validate:"max=80"`
	BuyerName   string  `json:"buyer_name" validate:"max=80"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	OrderRef    string  `json:"order_ref" validate:"required,max=40"`
	ServiceName string  `json:"service_name" validate:"required,max=200"`
}

// Checkout settles an order
// @Summary Settle an order
// @Description Debit the buyer for the order price and credit the seller minus the platform fee
// @Tags settlements
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Order details"
// @Success 200 {object} services.SettlementResult
// @Failure 400 {object} services.ErrorResponse
// @Router /orders/checkout [post]
func (h *SettlementHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	buyerID := middleware.UserID(r.Context())
	if buyerID == req.SellerID {
		services.SendErrorResponse(w, "Cannot purchase your own service", http.StatusBadRequest, nil)
		return
	}

	result, err := h.settlement.SettleOrder(r.Context(), services.SettlementRequest{
		BuyerID:     buyerID,
		BuyerName:   req.BuyerName,
		SellerID:    req.SellerID,
		SellerName:  req.SellerName,
		Price:       decimal.NewFromFloat(req.Price),
		OrderRef:    req.OrderRef,
		ServiceName: req.ServiceName,
	})
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Reconcile replays queued seller credits
// @Summary Replay pending seller credits
// @Description Apply seller credits that failed after the buyer's debit committed
// @Tags settlements
// @Produce json
// @Success 200 {object} object{reconciled=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /settlements/reconcile [post]
func (h *SettlementHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	applied, err := h.settlement.ReconcilePending(r.Context())
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"reconciled": applied})
}

// UnsettledDebits reports orphaned settlement debits
// @Summary List unsettled debits
// @Description Settlement debits that have no matching seller credit yet
// @Tags settlements
// @Produce json
// @Success 200 {object} object{unsettled=[]models.Transaction,count=int}
// @Failure 500 {object} services.ErrorResponse
// @Router /settlements/unsettled [get]
func (h *SettlementHandler) UnsettledDebits(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.settlement.FindUnsettledDebits()
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"unsettled": orphans,
		"count":     len(orphans),
	})
}

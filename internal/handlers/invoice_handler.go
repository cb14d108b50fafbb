package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillverse/backend/internal/middleware"
	"github.com/skillverse/backend/internal/services"
)

// InvoiceHandler serves rendered invoices for a user's own transactions.
type InvoiceHandler struct {
	gateway  *services.GatewayService
	invoices *services.InvoiceService
}

func NewInvoiceHandler(gateway *services.GatewayService, invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		gateway:  gateway,
		invoices: invoices,
	}
}

// GetInvoice renders a transaction invoice
// @Summary Get invoice for a transaction
// @Description HTML receipt for one of the authenticated user's transactions
// @Tags invoices
// @Produce html
// @Param txnId path string true "Transaction ID"
// @Success 200 {string} string
// @Failure 404 {object} services.ErrorResponse
// @Router /invoices/{txnId} [get]
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	txnID := chi.URLParam(r, "txnId")

	// Scoped lookup: settlement pairs share an id, so the user filter picks
	// the caller's half and answers not-found for anyone else's records.
	txn, err := h.gateway.GetTransaction(txnID, middleware.UserID(r.Context()))
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	html, err := h.invoices.Render(txn)
	if err != nil {
		services.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillverse/backend/internal/models"
	"github.com/skillverse/backend/internal/services"
)

func TestInvoiceHandler_GetInvoice(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.gateway, services.NewInvoiceService())

	txn, err := env.wallets.AddMoney("u1", decimal.NewFromInt(300), models.MethodUPI, "Wallet Recharge")
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/invoices/{txnId}", h.GetInvoice)

	t.Run("own transaction renders html", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/invoices/"+txn.ID, nil)
		w := httptest.NewRecorder()
		asUser("u1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), txn.ID)
		assert.Contains(t, w.Body.String(), "300.00")
	})

	t.Run("someone else's transaction is not found", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/invoices/"+txn.ID, nil)
		w := httptest.NewRecorder()
		asUser("u2", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/invoices/TXN000", nil)
		w := httptest.NewRecorder()
		asUser("u1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("each settlement half serves its own invoice", func(t *testing.T) {
		settlement := services.NewSettlementService(env.wallets, env.ledger, nil)
		_, err := env.wallets.CreateWallet("buyer1", decimal.NewFromInt(1000))
		require.NoError(t, err)

		result, err := settlement.SettleOrder(context.Background(), services.SettlementRequest{
			BuyerID:     "buyer1",
			SellerID:    "seller1",
			SellerName:  "Asha",
			Price:       decimal.NewFromInt(200),
			OrderRef:    "42",
			ServiceName: "Guitar Lessons",
		})
		require.NoError(t, err)
		require.NotNil(t, result.SellerTxn)

		// Both records share the id; the seller must get the credit half.
		r := httptest.NewRequest("GET", "/invoices/"+result.SellerTxn.ID, nil)
		w := httptest.NewRecorder()
		asUser("seller1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "180.00")
		assert.Contains(t, w.Body.String(), "Asha")

		// And the buyer still gets the debit half under the same id.
		r = httptest.NewRequest("GET", "/invoices/"+result.BuyerTxn.ID, nil)
		w = httptest.NewRecorder()
		asUser("buyer1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "200.00")
	})
}

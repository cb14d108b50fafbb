package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillverse/backend/internal/models"
	"github.com/skillverse/backend/internal/services"
)

func TestSettlementHandler_Checkout(t *testing.T) {
	env := newTestEnv(t)
	settlement := services.NewSettlementService(env.wallets, env.ledger, nil)
	h := NewSettlementHandler(settlement)
	handler := asUser("buyer1", http.HandlerFunc(h.Checkout))

	_, err := env.wallets.CreateWallet("buyer1", decimal.NewFromInt(1000))
	require.NoError(t, err)

	post := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/orders/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("successful checkout", func(t *testing.T) {
		w := post(`{"seller_id": "seller1", "seller_name": "Asha", "price": 200, "order_ref": "42", "service_name": "Guitar Lessons"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var result services.SettlementResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.NotEmpty(t, result.SettlementID)
		assert.False(t, result.CreditPending)
		assert.Equal(t, "180", result.SellerAmount.String())
		assert.Equal(t, "20", result.PlatformFee.String())
		require.NotNil(t, result.BuyerTxn)
		require.NotNil(t, result.SellerTxn)
		assert.Equal(t, result.BuyerTxn.ID, result.SellerTxn.ID)
	})

	t.Run("buying your own service is rejected", func(t *testing.T) {
		w := post(`{"seller_id": "buyer1", "price": 200, "order_ref": "43", "service_name": "Guitar Lessons"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Cannot purchase your own service", resp.Error)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		w := post(`{"seller_id": "seller1", "price": 5000, "order_ref": "44", "service_name": "Guitar Lessons"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Required)
		assert.NotEmpty(t, resp.Available)
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := post(`{"price": 200}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Details, "SellerID")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := post(`not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSettlementHandler_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	settlement := services.NewSettlementService(env.wallets, env.ledger, nil)
	h := NewSettlementHandler(settlement)

	r := httptest.NewRequest("POST", "/settlements/reconcile", nil)
	w := httptest.NewRecorder()
	h.Reconcile(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp["reconciled"])
}

func TestSettlementHandler_UnsettledDebits(t *testing.T) {
	env := newTestEnv(t)
	settlement := services.NewSettlementService(env.wallets, env.ledger, nil)
	h := NewSettlementHandler(settlement)

	// One settled order on the books.
	_, err := env.wallets.CreateWallet("buyer1", decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = settlement.SettleOrder(httptest.NewRequest("GET", "/", nil).Context(), services.SettlementRequest{
		BuyerID:     "buyer1",
		SellerID:    "seller1",
		Price:       decimal.NewFromInt(200),
		OrderRef:    "42",
		ServiceName: "Guitar Lessons",
	})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/settlements/unsettled", nil)
	w := httptest.NewRecorder()
	h.UnsettledDebits(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Unsettled []models.Transaction `json:"unsettled"`
		Count     int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Unsettled)
}

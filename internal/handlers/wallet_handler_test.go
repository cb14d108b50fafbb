package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillverse/backend/internal/models"
	"github.com/skillverse/backend/internal/services"
)

func TestWalletHandler_GetBalance(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)

	_, err := env.wallets.CreateWallet("u1", decimal.NewFromInt(500))
	require.NoError(t, err)

	t.Run("existing wallet", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wallet/balance", nil)
		w := httptest.NewRecorder()

		asUser("u1", http.HandlerFunc(h.GetBalance)).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp["user_id"])
		assert.Equal(t, "500.00", resp["balance"])
	})

	t.Run("absent wallet reads as zero", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wallet/balance", nil)
		w := httptest.NewRecorder()

		asUser("ghost", http.HandlerFunc(h.GetBalance)).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "0.00", resp["balance"])
	})
}

func TestWalletHandler_AddMoney(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)
	handler := asUser("u1", http.HandlerFunc(h.AddMoney))

	post := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/wallet/add", strings.NewReader(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("successful recharge", func(t *testing.T) {
		w := post(`{"amount": 500, "method": "upi"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var txn models.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txn))
		assert.Equal(t, models.StatusSuccess, txn.Status)
		assert.Equal(t, "Wallet Recharge", txn.Description)
		require.NotNil(t, txn.NewBalance)
		assert.Equal(t, "500.00", txn.NewBalance.StringFixed(2))
	})

	t.Run("malformed body", func(t *testing.T) {
		w := post(`not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		w := post(`{"amount": 500, "method": "upi", "extra": true}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("two json objects are rejected", func(t *testing.T) {
		w := post(`{"amount": 500, "method": "upi"}{"amount": 1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative amount fails validation", func(t *testing.T) {
		w := post(`{"amount": -5, "method": "upi"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Details, "Amount")
	})

	t.Run("unsupported method fails validation", func(t *testing.T) {
		w := post(`{"amount": 500, "method": "cheque"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWalletHandler_DeductMoney(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)
	handler := asUser("u1", http.HandlerFunc(h.DeductMoney))

	_, err := env.wallets.CreateWallet("u1", decimal.NewFromInt(100))
	require.NoError(t, err)

	t.Run("successful debit", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/wallet/deduct", strings.NewReader(`{"amount": 40}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var txn models.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txn))
		assert.Equal(t, models.TypeDebit, txn.Type)
		assert.Equal(t, "Service Purchase", txn.Description)
	})

	t.Run("insufficient balance reports both sides", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/wallet/deduct", strings.NewReader(`{"amount": 1000}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "1000.00", resp.Required)
		assert.Equal(t, "60.00", resp.Available)
	})
}

func TestWalletHandler_ListTransactions(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)
	handler := asUser("u1", http.HandlerFunc(h.ListTransactions))

	_, err := env.wallets.AddMoney("u1", decimal.NewFromInt(300), models.MethodUPI, "Wallet Recharge")
	require.NoError(t, err)
	_, err = env.wallets.DeductMoney("u1", decimal.NewFromInt(100), "Service Purchase", "")
	require.NoError(t, err)

	t.Run("full history with summary", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wallet/transactions", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Transactions []models.Transaction `json:"transactions"`
			Count        int                  `json:"count"`
			Summary      services.Summary     `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, 2, resp.Summary.Succeeded)
	})

	t.Run("status filter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wallet/transactions?status=failed", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Count)
	})
}

func TestWalletHandler_ExportTransactions(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)
	handler := asUser("u1", http.HandlerFunc(h.ExportTransactions))

	_, err := env.wallets.AddMoney("u1", decimal.NewFromInt(300), models.MethodUPI, "Wallet Recharge")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/wallet/transactions/export", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transactions_u1.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Transaction ID,Amount,Status,Method,Description,Date,Time\n"))
}

func TestWalletHandler_ValidateCard(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)

	post := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/payments/validate-card", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		h.ValidateCard(w, r)
		return w
	}

	t.Run("valid card", func(t *testing.T) {
		w := post(`{"card_number": "4111 1111 1111 1111", "expiry": "12/99", "cvv": "123"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]bool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp["valid"])
	})

	t.Run("expired card", func(t *testing.T) {
		w := post(`{"card_number": "4111111111111111", "expiry": "01/20", "cvv": "123"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp services.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "card has expired")
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		w := post(`{"card_number": "4111111111111111"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWalletHandler_GetTransaction(t *testing.T) {
	env := newTestEnv(t)
	h := NewWalletHandler(env.wallets, env.gateway)

	txn, err := env.wallets.AddMoney("u1", decimal.NewFromInt(300), models.MethodUPI, "Wallet Recharge")
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/transactions/{txnId}", h.GetTransaction)

	t.Run("own transaction", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/transactions/"+txn.ID, nil)
		w := httptest.NewRecorder()
		asUser("u1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, txn.ID, got.ID)
	})

	t.Run("someone else's transaction is not found", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/transactions/"+txn.ID, nil)
		w := httptest.NewRecorder()
		asUser("u2", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/transactions/TXN000", nil)
		w := httptest.NewRecorder()
		asUser("u1", router).ServeHTTP(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

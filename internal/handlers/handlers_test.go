package handlers

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillverse/backend/internal/middleware"
	"github.com/skillverse/backend/internal/services"
)

type testEnv struct {
	ledger  *services.LedgerService
	store   *services.WalletStore
	gateway *services.GatewayService
	wallets *services.WalletManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	ledger, err := services.NewLedgerService(filepath.Join(dir, "transactions.jsonl"))
	require.NoError(t, err)
	store, err := services.NewWalletStore(filepath.Join(dir, "wallets.jsonl"))
	require.NoError(t, err)

	gateway := services.NewGatewayService(ledger)
	return &testEnv{
		ledger:  ledger,
		store:   store,
		gateway: gateway,
		wallets: services.NewWalletManager(gateway, store),
	}
}

// asUser stands in for the auth middleware in handler tests.
func asUser(userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
	})
}

package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skillverse/backend/docs"
	"github.com/skillverse/backend/internal/handlers"
	mW "github.com/skillverse/backend/internal/middleware"
	"github.com/skillverse/backend/internal/services"
	"github.com/skillverse/backend/internal/storage"
)

// @title SkillVerse Wallet API
// @version 1.0
// @description Wallet, payment ledger and order settlement service
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("data.dir", "DATA_DIR")
	viper.BindEnv("gateway.success_rate", "GATEWAY_SUCCESS_RATE")
	viper.BindEnv("settlement.fee_percent", "SETTLEMENT_FEE_PERCENT")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("data.transactions_file", "transactions.jsonl")
	viper.SetDefault("data.wallets_file", "wallets.jsonl")

	docs.SwaggerInfo.Title = "SkillVerse Wallet API"
	docs.SwaggerInfo.Description = "Wallet, payment ledger and order settlement service"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + viper.GetString("server.port")
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	dataDir := viper.GetString("data.dir")

	ledger, err := services.NewLedgerService(filepath.Join(dataDir, viper.GetString("data.transactions_file")))
	if err != nil {
		log.Fatalf("Failed to open transaction ledger: %v", err)
	}
	walletStore, err := services.NewWalletStore(filepath.Join(dataDir, viper.GetString("data.wallets_file")))
	if err != nil {
		log.Fatalf("Failed to open wallet store: %v", err)
	}

	redisClient := storage.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	gateway := services.NewGatewayService(ledger)
	wallets := services.NewWalletManager(gateway, walletStore)
	settlement := services.NewSettlementService(wallets, ledger, redisClient)
	invoices := services.NewInvoiceService()

	walletHandler := handlers.NewWalletHandler(wallets, gateway)
	settlementHandler := handlers.NewSettlementHandler(settlement)
	invoiceHandler := handlers.NewInvoiceHandler(gateway, invoices)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+viper.GetString("server.port")+"/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/payments/validate-card", walletHandler.ValidateCard)

		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Get("/wallet/balance", walletHandler.GetBalance)
			r.Post("/wallet/add", walletHandler.AddMoney)
			r.Post("/wallet/deduct", walletHandler.DeductMoney)
			r.Get("/wallet/transactions", walletHandler.ListTransactions)
			r.Get("/wallet/transactions/export", walletHandler.ExportTransactions)
			r.Get("/transactions/{txnId}", walletHandler.GetTransaction)

			r.Get("/invoices/{txnId}", invoiceHandler.GetInvoice)

			r.Post("/orders/checkout", settlementHandler.Checkout)
			r.Post("/settlements/reconcile", settlementHandler.Reconcile)
			r.Get("/settlements/unsettled", settlementHandler.UnsettledDebits)
		})
	})

	port := viper.GetString("server.port")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}

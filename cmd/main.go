package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/payhub/payhub/gateway"
	_ "github.com/payhub/payhub/gateway/cashfree"
	_ "github.com/payhub/payhub/gateway/razorpay"
	_ "github.com/payhub/payhub/gateway/stripe"
	"github.com/payhub/payhub/handler"
	"github.com/payhub/payhub/infra/config"
	"github.com/payhub/payhub/infra/logger"
	"github.com/payhub/payhub/infra/opensearch"
	"github.com/payhub/payhub/infra/store"
	"github.com/payhub/payhub/router"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	logger.SetGlobalLogger(logger.NewSystemLogger(
		os.Stdout,
		logger.LogLevel(config.GetEnv("LOG_LEVEL", "info")),
		"payhub",
	))

	conf := config.Gateways()
	conf.LoadFromEnv()

	txLogger := buildTransactionLogger(conf)

	notifier := gateway.NewNotifier()
	notifier.Subscribe(func(e gateway.Event) {
		logger.Info("Payment event", logger.LogContext{
			Gateway: e.Gateway,
			Fields: map[string]any{
				"event":     string(e.Type),
				"operation": e.Operation,
				"error":     e.Error,
			},
		})
	})

	service := gateway.NewService(conf, nil, txLogger, notifier)
	paymentHandler := handler.NewPaymentHandler(service, config.App().Validator)
	webhookHandler := handler.NewWebhookHandler(service)

	r := router.New(paymentHandler, webhookHandler)

	port := config.GetEnv("APP_PORT", "9999")
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	logger.Info("API is running", logger.LogContext{Fields: map[string]any{"port": port}})

	<-ctx.Done()

	logger.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", err)
	}
}

// buildTransactionLogger wires the configured audit sink. A broken sink
// downgrades to disabled logging; audit persistence never blocks startup.
func buildTransactionLogger(conf *config.GatewayConfig) *gateway.TransactionLogger {
	if !conf.LoggingEnabled() {
		return gateway.NewTransactionLogger(nil, false)
	}

	var txStore gateway.TransactionStore
	switch config.GetEnv("AUDIT_STORE", "sqlite") {
	case "opensearch":
		osStore, err := opensearch.NewStore(opensearch.ConfigFromEnv())
		if err != nil {
			logger.Error("Failed to initialize OpenSearch audit store", err)
			return gateway.NewTransactionLogger(nil, false)
		}
		txStore = osStore
	default:
		sqliteStore, err := store.NewSQLiteStore(config.GetEnv("AUDIT_DB_PATH", "payhub.db"))
		if err != nil {
			logger.Error("Failed to initialize SQLite audit store", err)
			return gateway.NewTransactionLogger(nil, false)
		}
		txStore = sqliteStore
	}

	return gateway.NewTransactionLogger(txStore, true)
}

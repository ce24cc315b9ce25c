package main

import (
	"database/sql"
	"net/http"

	"marketpay/internal/checkout"
	"marketpay/internal/config"
	"marketpay/internal/db"
	"marketpay/internal/gateway"
	"marketpay/internal/logger"
	"marketpay/internal/middleware"
	"marketpay/internal/order"
	"marketpay/internal/payment"
	"marketpay/internal/payment/webhook"
	"marketpay/internal/paymethod"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("database init failed", zap.Error(err))
	}
	defer database.Close()

	handler := buildHandler(cfg, database)

	logger.L().Info("payment server running",
		zap.String("port", cfg.AppPort),
		zap.String("routing", string(cfg.PaymentRouting)),
	)
	if err := http.ListenAndServe(":"+cfg.AppPort, handler); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func buildHandler(cfg *config.Config, database *sql.DB) http.Handler {
	orderRepo := order.NewRepository(database)
	methodRepo := paymethod.NewRepository(database)
	txRepo := payment.NewRepository(database)

	gw := gateway.NewOgoneGateway(cfg)
	flow := checkout.NewFlow(orderRepo)
	processor := payment.NewProcessor(txRepo, gw, flow)
	router := payment.NewRouter(orderRepo, methodRepo, gw, processor)
	aggregator := payment.NewAggregator(orderRepo, cfg.PaymentRouting)

	h := webhook.NewHandler(orderRepo, gw, router, aggregator)

	mux := http.NewServeMux()
	mux.HandleFunc("/payment/ogone/request", h.RequestHandler)
	mux.HandleFunc("/payment/ogone/notify", h.NotifyHandler)
	mux.HandleFunc("/payment/ogone/return", h.ReturnHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)
}

package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/payhub/payhub/handler"
	"github.com/payhub/payhub/infra/middle"
)

// New builds the HTTP router.
func New(paymentHandler *handler.PaymentHandler, webhookHandler *handler.WebhookHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middle.RequestLoggingMiddleware())

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/health", handler.Health)

	// Webhook ingress, raw body in and boolean out.
	r.Post("/webhooks/{gateway}", webhookHandler.Handle)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/gateways", paymentHandler.ListGateways)

		r.Post("/orders", paymentHandler.CreateOrder)
		r.Get("/orders", paymentHandler.ListOrders)
		r.Get("/orders/{id}", paymentHandler.GetOrder)

		r.Post("/charge", paymentHandler.Charge)
		r.Get("/payments", paymentHandler.ListPayments)
		r.Get("/payments/{id}", paymentHandler.GetPayment)

		r.Post("/refund/{transactionID}", paymentHandler.Refund)

		r.Get("/invoices", paymentHandler.ListInvoices)
		r.Get("/settlements", paymentHandler.ListSettlements)

		r.Post("/reconcile", paymentHandler.Reconcile)
	})

	return r
}

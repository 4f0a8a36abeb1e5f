// Package payhub provides a unified payment gateway that abstracts multiple
// payment providers behind a single, standardized API. Orders, charges,
// refunds, webhooks and transaction auditing all flow through one consistent
// interface regardless of which provider sits behind it.
//
// # Overview
//
// Every provider speaks a different dialect: different credentials,
// different field names, different amount units, different webhook signature
// schemes. PayHub normalizes all of it into a canonical Record with a fixed
// four-value status vocabulary (success, pending, failed, refunded), wraps
// every operation result in a uniform Envelope, and verifies webhooks with
// the provider's own signature scheme over the raw request body.
//
// # Supported Providers
//
//   - Razorpay: orders, payments, refunds, hex HMAC webhook verification
//   - Cashfree: orders, refunds, settlement reconciliation, base64 HMAC webhooks
//   - Stripe: PaymentIntents via the official SDK, signed-header webhooks
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/payhub/payhub/gateway"
//		_ "github.com/payhub/payhub/gateway/razorpay"
//		"github.com/payhub/payhub/infra/config"
//	)
//
//	func main() {
//		conf := config.Gateways()
//		conf.LoadFromEnv()
//
//		service := gateway.NewService(conf, nil, nil, nil)
//		svc, err := service.UseGateway("razorpay")
//		if err != nil {
//			panic(err)
//		}
//
//		env, err := svc.CreateOrder(context.Background(), map[string]any{
//			"amount":   500.0,
//			"currency": "INR",
//		})
//		if err != nil {
//			panic(err)
//		}
//		fmt.Printf("order: %+v\n", env.Data)
//	}
//
// Provider packages register themselves on import; a blank import is all it
// takes to make a gateway selectable by name.
//
// # Events and Auditing
//
// The orchestrator dispatches a lifecycle event after every operation
// (payment.created, payment.succeeded, payment.refunded, payment.failed) to
// synchronous subscribers. Completed operations are additionally persisted
// best-effort through a TransactionLogger backed by SQLite or OpenSearch;
// audit failures never abort a payment flow.
package payhub

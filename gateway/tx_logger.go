package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/payhub/payhub/infra/logger"
)

// Transaction is the audit row persisted for every completed operation.
type Transaction struct {
	Gateway       string     `json:"gateway"`
	Type          RecordType `json:"type"`
	Status        Status     `json:"status"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	TransactionID string     `json:"transaction_id"`
	Payload       string     `json:"payload"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TransactionStore is the persistence sink for audit transactions.
type TransactionStore interface {
	Create(ctx context.Context, tx Transaction) error
}

// TransactionLogger persists normalized records best-effort. It is a no-op
// when disabled and swallows every store failure: audit logging must never
// abort or delay a payment flow.
type TransactionLogger struct {
	store   TransactionStore
	enabled bool
}

// NewTransactionLogger creates a transaction logger. A nil store behaves
// like a disabled logger.
func NewTransactionLogger(store TransactionStore, enabled bool) *TransactionLogger {
	return &TransactionLogger{
		store:   store,
		enabled: enabled && store != nil,
	}
}

// Log persists the record. Gateways call this fire-and-forget after a
// successful normalization; failed operations never reach the logger.
func (l *TransactionLogger) Log(ctx context.Context, rec Record) {
	if l == nil || !l.enabled {
		return
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		logger.Warn("Failed to serialize transaction payload", logger.LogContext{
			Gateway: rec.Gateway,
			Fields:  map[string]any{"error": err.Error()},
		})
		return
	}

	tx := Transaction{
		Gateway:       rec.Gateway,
		Type:          rec.Type,
		Status:        rec.Status,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		TransactionID: rec.ID,
		Payload:       string(payload),
		CreatedAt:     time.Now(),
	}

	if err := l.store.Create(ctx, tx); err != nil {
		logger.Warn("Failed to persist transaction", logger.LogContext{
			Gateway: rec.Gateway,
			Fields: map[string]any{
				"transaction_id": rec.ID,
				"error":          err.Error(),
			},
		})
	}
}

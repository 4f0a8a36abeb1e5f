package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/payhub/payhub/gateway"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS payment_transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	gateway TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'INR',
	transaction_id TEXT,
	payload TEXT,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payment_transactions_gateway ON payment_transactions(gateway);
CREATE INDEX IF NOT EXISTS idx_payment_transactions_txn ON payment_transactions(transaction_id);
`

// SQLiteStore persists audit transactions in a local SQLite database. It
// implements gateway.TransactionStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) a SQLite transaction store at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite handles a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create payment_transactions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create inserts one audit transaction.
func (s *SQLiteStore) Create(ctx context.Context, tx gateway.Transaction) error {
	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_transactions (gateway, type, status, amount, currency, transaction_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Gateway, string(tx.Type), string(tx.Status), tx.Amount, tx.Currency, tx.TransactionID, tx.Payload, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// CountByGateway returns the number of stored transactions for a gateway.
func (s *SQLiteStore) CountByGateway(ctx context.Context, gatewayName string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payment_transactions WHERE gateway = ?", gatewayName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// Recent returns the most recent transactions, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]gateway.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT gateway, type, status, amount, currency, transaction_id, payload, created_at
		FROM payment_transactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []gateway.Transaction
	for rows.Next() {
		var tx gateway.Transaction
		var recType, status string
		if err := rows.Scan(&tx.Gateway, &recType, &status, &tx.Amount, &tx.Currency, &tx.TransactionID, &tx.Payload, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = gateway.RecordType(recType)
		tx.Status = gateway.Status(status)
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

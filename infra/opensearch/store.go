// Package opensearch provides an OpenSearch-backed audit sink for payment
// transactions, as an alternative to the SQLite store when an indexed,
// searchable trail is wanted.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

// Config holds OpenSearch connection settings.
type Config struct {
	URL      string
	Username string
	Password string
}

// ConfigFromEnv reads OpenSearch settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		URL:      config.GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
		Username: config.GetEnv("OPENSEARCH_USER", ""),
		Password: config.GetEnv("OPENSEARCH_PASSWORD", ""),
	}
}

// Store indexes audit transactions into a per-gateway index. It implements
// gateway.TransactionStore.
type Store struct {
	client *opensearch.Client
}

// NewStore creates an OpenSearch transaction store.
func NewStore(cfg Config) (*Store, error) {
	osConfig := opensearch.Config{
		Addresses:     []string{cfg.URL},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.Username != "" && cfg.Password != "" {
		osConfig.Username = cfg.Username
		osConfig.Password = cfg.Password
	}

	client, err := opensearch.NewClient(osConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	return &Store{client: client}, nil
}

// Create indexes one audit transaction.
func (s *Store) Create(ctx context.Context, tx gateway.Transaction) error {
	doc, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: indexName(tx.Gateway),
		Body:  bytes.NewReader(doc),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to index transaction: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch index error: %s", res.String())
	}

	return nil
}

// Ping verifies the cluster is reachable.
func (s *Store) Ping(ctx context.Context) error {
	req := opensearchapi.PingRequest{}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("opensearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch ping error: %s", res.String())
	}

	return nil
}

func indexName(gatewayName string) string {
	name := strings.ToLower(strings.TrimSpace(gatewayName))
	if name == "" {
		name = "default"
	}
	return "payhub-transactions-" + name
}

package gateway

import "strings"

// Status is the normalized payment status. Normalization never lets a raw
// provider status through: anything outside the classification table maps
// to StatusPending.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusPending  Status = "pending"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// statusTable classifies the status vocabulary seen across providers.
var statusTable = map[string]Status{
	"succeeded": StatusSuccess,
	"success":   StatusSuccess,
	"paid":      StatusSuccess,
	"captured":  StatusSuccess,
	"settled":   StatusSuccess,
	"processed": StatusSuccess,

	"pending":    StatusPending,
	"processing": StatusPending,
	"created":    StatusPending,
	"open":       StatusPending,

	"failed":   StatusFailed,
	"declined": StatusFailed,
	"canceled": StatusFailed,
	"error":    StatusFailed,

	"refunded":           StatusRefunded,
	"partial_refund":     StatusRefunded,
	"partially_refunded": StatusRefunded,
}

// MapStatus maps a provider's free-text status to the internal enum,
// case-insensitively. Unknown values map to StatusPending so that new
// provider vocabulary never breaks callers.
func MapStatus(raw string) Status {
	if s, ok := statusTable[strings.ToLower(raw)]; ok {
		return s
	}
	return StatusPending
}

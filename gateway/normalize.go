package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CustomField declares one metadata extraction. Key is the metadata key,
// Source the raw response key it is read from. Field() covers the common
// case where both names match.
type CustomField struct {
	Key    string
	Source string
}

// Field declares a custom field whose metadata key and raw key are identical.
func Field(name string) CustomField {
	return CustomField{Key: name, Source: name}
}

// Renamed declares a custom field that renames raw key source to key in the
// metadata map.
func Renamed(key, source string) CustomField {
	return CustomField{Key: key, Source: source}
}

// FieldMap describes, per operation, how a raw provider response maps onto
// the canonical record. Empty raw keys resolve to documented defaults.
type FieldMap struct {
	ID       string
	Amount   string
	Currency string
	Status   string
	Type     RecordType
	Gateway  string
	Custom   []CustomField
}

// Normalize produces a canonical record from a raw provider response using
// the field map's raw-key indirection. Defaults: id "", amount 0, currency
// "INR", status pending. The status value is always passed through MapStatus
// and amount is always coerced to an integer (truncating).
func Normalize(raw map[string]any, fm FieldMap) Record {
	rec := Record{
		ID:       stringValue(raw[fm.ID]),
		Type:     fm.Type,
		Amount:   coerceAmount(raw[fm.Amount]),
		Currency: "INR",
		Status:   MapStatus(stringValue(raw[fm.Status])),
		Gateway:  fm.Gateway,
		Raw:      raw,
		Metadata: extractCustomFields(raw, fm.Custom),
	}

	if rec.Type == "" {
		rec.Type = TypeGeneric
	}
	if c := stringValue(raw[fm.Currency]); c != "" {
		rec.Currency = c
	}

	return rec
}

// extractCustomFields builds the metadata map. Every declared key is present
// in the result; a missing raw key yields a nil value, never an omission.
func extractCustomFields(raw map[string]any, fields []CustomField) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}

	meta := make(map[string]any, len(fields))
	for _, f := range fields {
		meta[f.Key] = raw[f.Source]
	}
	return meta
}

// coerceAmount coerces whatever the provider put in the amount field to an
// integer. Fractional values are truncated, not rounded; unparseable or
// absent values coerce to 0.
func coerceAmount(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

// stringValue renders a raw JSON value as a string without the %v noise for
// numeric types. Nil and unsupported types render empty.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

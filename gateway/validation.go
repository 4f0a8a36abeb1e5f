package gateway

import (
	"fmt"
	"strings"
)

// ConfigField describes one credential or setting a gateway reads from
// configuration.
type ConfigField struct {
	Key         string
	Required    bool
	Description string
}

// ValidateConfigFields checks a gateway configuration against its field
// definitions. Credentials are read lazily, so this runs on first use of a
// gateway rather than at construction.
func ValidateConfigFields(gatewayName string, conf map[string]string, fields []ConfigField) error {
	for _, field := range fields {
		if !field.Required {
			continue
		}

		value, exists := conf[field.Key]
		if !exists {
			return fmt.Errorf("%s: required field '%s' is missing", gatewayName, field.Key)
		}

		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s: required field '%s' cannot be empty", gatewayName, field.Key)
		}
	}

	return nil
}

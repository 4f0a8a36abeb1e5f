package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// GatewayConfig manages payment gateway configurations. Values are read
// from the environment once via LoadFromEnv and may be overridden with Set;
// gateways look their credentials up lazily per call.
type GatewayConfig struct {
	configs        map[string]map[string]string
	defaultGateway string
	loggingEnabled bool
	mu             sync.RWMutex
}

// NewGatewayConfig creates an empty gateway configuration.
func NewGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		configs:        make(map[string]map[string]string),
		defaultGateway: "razorpay",
	}
}

var gatewaysInstance *GatewayConfig

// Gateways returns the shared gateway configuration.
func Gateways() *GatewayConfig {
	if gatewaysInstance == nil {
		gatewaysInstance = NewGatewayConfig()
	}
	return gatewaysInstance
}

// LoadFromEnv populates the configuration from environment variables.
func (c *GatewayConfig) LoadFromEnv() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.defaultGateway = GetEnv("PAYMENT_GATEWAY", "razorpay")
	c.loggingEnabled = GetBoolEnv("PAYMENT_LOGGING", false)

	c.configs["razorpay"] = map[string]string{
		"enabled":        GetEnv("RAZORPAY_ENABLED", "true"),
		"key":            GetEnv("RAZORPAY_KEY", ""),
		"secret":         GetEnv("RAZORPAY_SECRET", ""),
		"webhook_secret": GetEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		"base_url":       GetEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
	}

	c.configs["cashfree"] = map[string]string{
		"enabled":             GetEnv("CASHFREE_ENABLED", "true"),
		"app_id":              GetEnv("CASHFREE_APP_ID", ""),
		"secret":              GetEnv("CASHFREE_SECRET", ""),
		"webhook_secret":      GetEnv("CASHFREE_WEBHOOK_SECRET", ""),
		"mode":                GetEnv("CASHFREE_MODE", "sandbox"),
		"base_url_sandbox":    GetEnv("CASHFREE_BASE_URL_SANDBOX", "https://sandbox.cashfree.com/pg"),
		"base_url_production": GetEnv("CASHFREE_BASE_URL_PRODUCTION", "https://api.cashfree.com/pg"),
	}

	c.configs["stripe"] = map[string]string{
		"enabled":        GetEnv("STRIPE_ENABLED", "true"),
		"secret_key":     GetEnv("STRIPE_SECRET_KEY", ""),
		"webhook_secret": GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	}
}

// Set replaces the configuration for a gateway.
func (c *GatewayConfig) Set(name string, conf map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[strings.ToLower(name)] = conf
}

// Get returns a copy of the configuration for a gateway.
func (c *GatewayConfig) Get(name string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conf, exists := c.configs[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("no configuration found for gateway: %s", name)
	}

	confCopy := make(map[string]string, len(conf))
	for k, v := range conf {
		confCopy[k] = v
	}

	return confCopy, nil
}

// Enabled reports whether a gateway is configured and flagged enabled.
func (c *GatewayConfig) Enabled(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conf, exists := c.configs[strings.ToLower(name)]
	if !exists {
		return false
	}

	return conf["enabled"] != "false"
}

// EnabledGateways returns the names of all enabled gateways.
func (c *GatewayConfig) EnabledGateways() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.configs))
	for name, conf := range c.configs {
		if conf["enabled"] != "false" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}

// Default returns the configured default gateway name.
func (c *GatewayConfig) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultGateway
}

// SetDefault overrides the default gateway name.
func (c *GatewayConfig) SetDefault(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultGateway = strings.ToLower(name)
}

// LoggingEnabled reports whether transaction audit logging is on.
func (c *GatewayConfig) LoggingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggingEnabled
}

// SetLogging toggles transaction audit logging.
func (c *GatewayConfig) SetLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loggingEnabled = enabled
}

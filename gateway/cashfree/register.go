package cashfree

import "github.com/payhub/payhub/gateway"

// Register the Cashfree gateway with the default registry
func init() {
	gateway.Register("cashfree", New)
}

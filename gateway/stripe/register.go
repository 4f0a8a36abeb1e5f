package stripe

import "github.com/payhub/payhub/gateway"

// Register the Stripe gateway with the default registry
func init() {
	gateway.Register("stripe", New)
}

package razorpay

import "github.com/payhub/payhub/gateway"

// Register the Razorpay gateway with the default registry
func init() {
	gateway.Register("razorpay", New)
}

package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Webhook signatures are HMAC-SHA256 over the exact raw request body. The
// digest encoding is provider-specific: Razorpay compares the hex digest,
// Cashfree base64-encodes the raw digest. Comparison is constant-time and
// fails closed when either the signature or the secret is missing.

// SignHex computes the hex-encoded HMAC-SHA256 of body.
func SignHex(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignBase64 computes the base64-encoded HMAC-SHA256 of body.
func SignBase64(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyHex checks a hex-digest signature against body. Empty signature or
// secret never verifies.
func VerifyHex(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(SignHex(body, secret)))
}

// VerifyBase64 checks a base64-digest signature against body. Empty
// signature or secret never verifies.
func VerifyBase64(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(SignBase64(body, secret)))
}

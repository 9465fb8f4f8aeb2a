package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the GitHub-style signature header value for body:
// hex-encoded HMAC-SHA256 under secret, prefixed with "sha256=".
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the X-Hub-Signature-256 header against the raw
// request body. hmac.Equal compares in constant time, so a forged header
// learns nothing from response latency. An empty header or secret never
// verifies.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(header))
}

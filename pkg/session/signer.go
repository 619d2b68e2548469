package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Signer authenticates session identifiers with HMAC-SHA256 under a server
// secret. Signing is deterministic: the same secret and id always produce
// the same signature, and forging one without the secret is computationally
// infeasible.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer for the given secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the base64url-encoded MAC of id.
func (s *Signer) Sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature authenticates id. Malformed input never
// panics or errors; it simply fails verification. The comparison is
// constant-time.
func (s *Signer) Verify(id, signature string) bool {
	provided, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hmac.Equal(provided, mac.Sum(nil))
}

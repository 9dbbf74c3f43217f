package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// NewSessionToken returns a fresh opaque bearer token. Only its hash is
// ever stored.
func NewSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func HashToken(raw string) string {
	digest := sha256.Sum256([]byte(raw))
	return base64.URLEncoding.EncodeToString(digest[:])
}

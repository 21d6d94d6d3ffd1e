package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateToken returns 2n lowercase hex characters from n random bytes.
func GenerateToken(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return hex.EncodeToString(byt), nil
}

// GenerateSessionID returns an opaque operator session identifier.
func GenerateSessionID() string {
	return "session_" + uuid.NewString()
}

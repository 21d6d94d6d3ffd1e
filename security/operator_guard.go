package security

import (
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

const OperatorKeyHeader = "X-Operator-Key"

// OperatorGuard checks X-Operator-Key against a bcrypt hash. With no hash
// configured it returns nil and operator routes stay open.
func OperatorGuard(keyHash string) func(e *core.RequestEvent) error {
	if keyHash == "" {
		return nil
	}

	hash := []byte(keyHash)
	return func(e *core.RequestEvent) error {
		key := e.Request.Header.Get(OperatorKeyHeader)
		if key == "" {
			return apis.NewUnauthorizedError("Operator key required", nil)
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
			return apis.NewUnauthorizedError("Invalid operator key", nil)
		}
		return e.Next()
	}
}

// HashOperatorKey produces the value for OPERATOR_KEY_HASH.
func HashOperatorKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

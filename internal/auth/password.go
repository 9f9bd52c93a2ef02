package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a password or API key for storage
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// VerifySecret reports whether plain matches the stored bcrypt hash
func VerifySecret(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewAPIKey generates a random API key. The plain value is returned to the
// caller exactly once; only its hash is stored.
func NewAPIKey() (string, error) {
	return randomHex(32)
}

// NewPassword generates a random initial password, set on activation
func NewPassword() (string, error) {
	return randomHex(16)
}

func randomHex(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

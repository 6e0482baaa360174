package core

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// placeholderEntropy is the number of random bytes behind the throwaway
// password assigned to OAuth-provisioned accounts.
const placeholderEntropy = 16

// GeneratePlaceholderCredential returns a bcrypt hash of a freshly generated
// random password. The plaintext is never stored or returned; the hash exists
// only so accounts created through OAuth carry a non-empty credential.
// Uses bcrypt cost of 12 for a good balance between security and performance.
func GeneratePlaceholderCredential() (string, error) {
	raw := make([]byte, placeholderEntropy)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate placeholder password: %w", err)
	}

	password := base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	return string(hash), nil
}

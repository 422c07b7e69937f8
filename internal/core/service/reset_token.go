package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	resetTokenBytes = 32 // 64 hex chars

	// ResetTokenTTL bounds how long a reset link stays redeemable.
	ResetTokenTTL = time.Hour
)

// generateResetToken returns an opaque token for the user and the hash to store.
func generateResetToken() (token, hash string, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token = hex.EncodeToString(b)
	return token, hashResetToken(token), nil
}

// hashResetToken is the deterministic digest used for storage and lookup.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// resetLink builds the client-side URL that carries token.
func resetLink(clientURL, token string) string {
	return strings.TrimRight(clientURL, "/") + "/reset-password/" + token
}

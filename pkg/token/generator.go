package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// MinTokenLength is the minimum required length for admin tokens.
	// This ensures sufficient entropy (41 chars = ~246 bits when base64-encoded).
	MinTokenLength = 41

	// DefaultTokenBytes is the number of random bytes to generate for tokens.
	// 32 bytes = 256 bits of entropy, which base64-encodes to 44 characters.
	DefaultTokenBytes = 32
)

// Generate creates a cryptographically secure random token suitable for
// admin authentication. The token is base64-URL-encoded and will be at
// least MinTokenLength characters.
func Generate() (string, error) {
	return GenerateWithLength(DefaultTokenBytes)
}

// GenerateWithLength creates a cryptographically secure random token of the
// specified byte length. numBytes must be at least DefaultTokenBytes.
func GenerateWithLength(numBytes int) (string, error) {
	if numBytes < DefaultTokenBytes {
		return "", fmt.Errorf("token length must be at least %d bytes", DefaultTokenBytes)
	}

	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tok := base64.URLEncoding.EncodeToString(b)
	if len(tok) < MinTokenLength {
		return "", fmt.Errorf("generated token too short: got %d, need %d", len(tok), MinTokenLength)
	}

	return tok, nil
}

// Hash produces an HMAC-SHA256 hash of the token using the provided secret.
// The hash is returned as a hex-encoded string suitable for configuration
// storage. The original token is never stored, only its hash.
func Hash(token, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// Validate compares a provided token against a stored hash using
// constant-time comparison. This prevents timing attacks that could be used
// to determine valid token values.
func Validate(provided, secret, storedHash string) bool {
	providedHash := Hash(provided, secret)
	return hmac.Equal([]byte(providedHash), []byte(storedHash))
}

// ValidateLength checks if a token meets the minimum length requirement.
// This is a quick check performed before attempting authentication.
func ValidateLength(token string) error {
	if len(token) < MinTokenLength {
		return fmt.Errorf("token too short: got %d characters, need at least %d", len(token), MinTokenLength)
	}
	return nil
}

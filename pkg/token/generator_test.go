package token

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(tok) < MinTokenLength {
		t.Errorf("Generate() token length = %d, want >= %d", len(tok), MinTokenLength)
	}
	for _, c := range tok {
		if !isBase64URLChar(c) {
			t.Errorf("Generate() token contains invalid character: %c", c)
		}
	}

	// Uniqueness
	other, _ := Generate()
	if tok == other {
		t.Error("Generate() produced duplicate tokens")
	}
}

func TestGenerateWithLength(t *testing.T) {
	tests := []struct {
		name     string
		numBytes int
		wantErr  bool
	}{
		{"default length", DefaultTokenBytes, false},
		{"longer token", 48, false},
		{"too short", 16, true},
		{"zero bytes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := GenerateWithLength(tt.numBytes)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateWithLength(%d) error = %v, wantErr %v", tt.numBytes, err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(tok) < MinTokenLength {
				t.Errorf("GenerateWithLength(%d) token length = %d, want >= %d", tt.numBytes, len(tok), MinTokenLength)
			}
		})
	}
}

func TestHashAndValidate(t *testing.T) {
	const secret = "server-secret-at-least-32-bytes-long-0001"

	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	hash := Hash(tok, secret)
	if len(hash) != 64 {
		t.Errorf("Hash() length = %d, want 64 hex characters", len(hash))
	}

	if !Validate(tok, secret, hash) {
		t.Error("Validate() rejected the correct token")
	}
	if Validate("wrong-token", secret, hash) {
		t.Error("Validate() accepted a wrong token")
	}
	if Validate(tok, "different-secret-also-32-bytes-long-01", hash) {
		t.Error("Validate() accepted a token hashed with a different secret")
	}
}

func TestHashDeterministic(t *testing.T) {
	const secret = "server-secret-at-least-32-bytes-long-0002"
	if Hash("token-a", secret) != Hash("token-a", secret) {
		t.Error("Hash() is not deterministic for identical inputs")
	}
	if Hash("token-a", secret) == Hash("token-b", secret) {
		t.Error("Hash() collided for different tokens")
	}
}

func TestValidateLength(t *testing.T) {
	if err := ValidateLength(strings.Repeat("a", MinTokenLength)); err != nil {
		t.Errorf("ValidateLength() rejected a valid token: %v", err)
	}
	if err := ValidateLength("short"); err == nil {
		t.Error("ValidateLength() accepted a short token")
	}
}

func isBase64URLChar(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '='
}

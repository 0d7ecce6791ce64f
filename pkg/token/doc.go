// Package token provides secure token generation and validation for the
// Site Clusters admin API.
//
// This package implements cryptographically secure token generation using
// crypto/rand, HMAC-SHA256 hashing for secure storage, and constant-time
// comparison for validation to prevent timing attacks.
//
// # Token Generation
//
// Tokens are generated using crypto/rand for cryptographic security:
//
//	tok, err := token.Generate()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// tok is a 44-character base64-URL-encoded string
//
// # Token Hashing
//
// Tokens are never stored in plaintext. The server is configured with the
// HMAC hash only:
//
//	secret := os.Getenv("SITECLUSTERS_HMAC_SECRET")
//	hash := token.Hash(tok, secret)
//	// Configure hash on the server, hand tok to the operator
//
// # Token Validation
//
// Validation uses constant-time comparison to prevent timing attacks:
//
//	if token.Validate(provided, secret, configuredHash) {
//	    // Authentication successful
//	}
//
// # Usage in Site Clusters
//
// A single admin token guards mutating endpoints (dataset reload). Read
// endpoints are unauthenticated.
package token

// ABOUTME: Unit tests for JWT token issuance and verification
// ABOUTME: Tests valid tokens, invalid tokens, expired tokens, and tampering

package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	verifier, err := NewJWTVerifier([]byte("test-secret-key-for-jwt-signing"))
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	return verifier
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier(nil)
	if !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewJWTVerifier(nil) error = %v, want ErrMissingSecret", err)
	}
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)

	subject := "alice01"
	token, err := verifier.Issue(subject, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if got != subject {
		t.Errorf("Verify() = %q, want %q", got, subject)
	}
}

func TestJWTVerifier_InvalidToken(t *testing.T) {
	verifier := newTestVerifier(t)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				// Generate with different secret
				other, _ := NewJWTVerifier([]byte("different-secret"))
				token, _ := other.Issue("alice01", time.Hour)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if err == nil {
				t.Fatal("Verify() should have returned an error")
			}
			if errors.Is(err, ErrExpiredToken) {
				t.Errorf("Verify() error = %v, want non-expiry failure", err)
			}
		})
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier := newTestVerifier(t)

	// Issue a token that expired 1 hour ago
	token, err := verifier.Issue("alice01", -time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if err == nil {
		t.Fatal("Verify() should have returned an error for expired token")
	}

	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_ExpiryBoundary(t *testing.T) {
	verifier := newTestVerifier(t)

	// A token with a generous TTL verifies well before its deadline
	token, err := verifier.Issue("alice01", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.Verify(token); err != nil {
		t.Errorf("Verify() error = %v, want nil before expiry", err)
	}

	// A token just past its deadline fails with ErrExpiredToken.
	// jwt/v5 applies no leeway by default, so -2s is safely past.
	expired, err := verifier.Issue("alice01", -2*time.Second)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.Verify(expired); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken just past expiry", err)
	}
}

func TestJWTVerifier_TamperedToken(t *testing.T) {
	verifier := newTestVerifier(t)

	// Expired token: with an intact signature this reports ErrExpiredToken,
	// but any bit flipped in payload or signature must report ErrInvalidToken
	token, err := verifier.Issue("alice01", -time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	flipBit := func(seg string) string {
		raw, err := base64.RawURLEncoding.DecodeString(seg)
		if err != nil {
			t.Fatalf("decoding segment: %v", err)
		}
		raw[0] ^= 0x01
		return base64.RawURLEncoding.EncodeToString(raw)
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "tampered payload",
			token: parts[0] + "." + flipBit(parts[1]) + "." + parts[2],
		},
		{
			name:  "tampered signature",
			token: parts[0] + "." + parts[1] + "." + flipBit(parts[2]),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
			if errors.Is(err, ErrExpiredToken) {
				t.Error("Verify() reported expiry for a tampered token")
			}
		})
	}
}

func TestJWTVerifier_MissingSubject(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Issue("", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}

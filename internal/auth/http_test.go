// ABOUTME: Tests for the bearer token HTTP middleware
// ABOUTME: Covers header extraction, expired vs invalid responses, and identity injection

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddleware_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)
	token, err := verifier.Issue("alice01", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotIdentity *Identity
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotIdentity == nil {
		t.Fatal("Identity was not added to request context")
	}
	if gotIdentity.Username != "alice01" {
		t.Errorf("Identity.Username = %q, want %q", gotIdentity.Username, "alice01")
	}
}

func TestMiddleware_MissingOrMalformedHeader(t *testing.T) {
	verifier := newTestVerifier(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestMiddleware_ExpiredVsInvalid(t *testing.T) {
	verifier := newTestVerifier(t)

	expired, err := verifier.Issue("alice01", -time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name     string
		token    string
		wantBody string
	}{
		{name: "expired token", token: expired, wantBody: "token has expired"},
		{name: "garbage token", token: "not-a-jwt", wantBody: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want mention of %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestMiddleware_MissingSubject(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Issue("", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "invalid token payload") {
		t.Errorf("body = %q, want mention of invalid token payload", rec.Body.String())
	}
}

// ABOUTME: HTTP middleware for JWT authentication on protected endpoints
// ABOUTME: Extracts the bearer token from the Authorization header and adds Identity to context

package auth

import (
	"errors"
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware creates an HTTP middleware that extracts and validates bearer
// tokens. The verified subject is added to the request context as an Identity
// using the WithIdentity/FromContext pattern. Expired and invalid tokens get
// distinct 401 bodies so clients can tell re-login from tampering.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeAuthError(w, errMsg)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, ErrExpiredToken):
					writeAuthError(w, "token has expired")
				case errors.Is(err, ErrMissingClaim):
					writeAuthError(w, "invalid token payload")
				default:
					writeAuthError(w, "invalid token")
				}
				return
			}

			id := &Identity{Username: subject}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// writeAuthError writes a 401 response with a small inline JSON body.
func writeAuthError(w http.ResponseWriter, msg string) {
	http.Error(w, `{"error":"`+msg+`"}`, http.StatusUnauthorized)
}

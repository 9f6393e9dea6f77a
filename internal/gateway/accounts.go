// ABOUTME: HTTP handlers for account registration, login, and identity lookup
// ABOUTME: Validates input before storage and maps store/token failures to stable status codes

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/paperchat/paperchat-gateway/internal/auth"
	"github.com/paperchat/paperchat-gateway/internal/store"
)

// Username validation: alphanumeric only, 3-30 characters
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)

const minPasswordLength = 6

// RegisterRequest is the JSON request body for POST /register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse is the public view of an account. The password hash is
// never part of any response.
type AccountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// TokenResponse is the JSON response for POST /login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// accountResponse converts a stored account to its public view.
func accountResponse(a *store.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// validateRegistration checks a registration request before any storage is
// touched. Returns an error message (empty if valid).
func validateRegistration(req *RegisterRequest) string {
	if !usernameRegex.MatchString(req.Username) {
		return "username must be alphanumeric and between 3 and 30 characters"
	}
	if len(req.Password) < minPasswordLength {
		return "password must be at least 6 characters long"
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil || addr.Address != req.Email {
		return "email is not a valid address"
	}
	return ""
}

// handleRegister handles POST /register requests.
// Validation runs before storage; uniqueness is decided by the store's
// atomic insert, never by a pre-check.
func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validateRegistration(&req); msg != "" {
		g.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	passwordHash, err := g.hasher.Hash(req.Password)
	if err != nil {
		g.logger.Error("failed to hash password", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	account := &store.Account{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := g.store.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			g.sendJSONError(w, http.StatusBadRequest, "email or username already exists")
			return
		}
		g.logger.Error("failed to create account", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(accountResponse(account))
}

// handleLogin handles POST /login requests with form-encoded credentials.
// Unknown usernames and wrong passwords produce the identical response so
// callers cannot enumerate accounts, and both paths burn a bcrypt comparison
// to keep timing uniform.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		g.sendJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	account, err := g.store.GetAccountByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			g.hasher.VerifyDummy(password)
			g.sendJSONError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		g.logger.Error("failed to look up account", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !g.hasher.Verify(password, account.PasswordHash) {
		g.sendJSONError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	token, err := g.verifier.Issue(account.Username, g.config.Auth.TokenTTL)
	if err != nil {
		g.logger.Error("failed to issue token", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	g.logger.Info("login successful", "username", account.Username)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// handleMe handles GET /users/me requests.
// The auth middleware has already verified the token; this resolves the
// subject to an account. A valid token for a deleted account is a 404.
func (g *Gateway) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := auth.MustFromContext(r.Context())

	account, err := g.store.GetAccountByUsername(r.Context(), identity.Username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "user not found")
			return
		}
		g.logger.Error("failed to look up account", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accountResponse(account))
}

// ABOUTME: HTTP session client for the gateway, holding the bearer token between calls
// ABOUTME: Implements the anonymous/authenticated state machine with 401-driven reset

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrUnauthorized is returned by protected calls when the server rejects the
// held token. The client has already discarded the token by the time this is
// returned; the caller must log in again.
var ErrUnauthorized = errors.New("unauthorized: please log in again")

// ErrNotLoggedIn is returned by protected calls made without a token.
var ErrNotLoggedIn = errors.New("not logged in")

// Account is the public account view returned by the gateway.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Client talks to the gateway HTTP API. It starts anonymous; Login moves it
// to authenticated, and a 401 from any protected call moves it back. The
// token is the only mutable state and is guarded for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// New creates a session client for the gateway at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Token returns the currently held bearer token, empty when anonymous.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken installs a previously saved token, e.g. from a state file.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Logout discards the held token, returning the client to anonymous.
func (c *Client) Logout() {
	c.SetToken("")
}

// apiError decodes the gateway's {"error": ...} body, falling back to the
// raw text for non-JSON responses.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned status %d", resp.StatusCode)
}

// Register creates a new account. Registration is a public call and does not
// change the session state.
func (c *Client) Register(ctx context.Context, email, username, password string) (*Account, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &account, nil
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("server returned empty token")
	}

	c.SetToken(tok.AccessToken)
	return nil
}

// doProtected performs an authenticated request. Every protected call goes
// through here so the 401-to-anonymous transition is uniform across the API
// surface, not special to any one endpoint.
func (c *Client) doProtected(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.Logout()
		return nil, ErrUnauthorized
	}

	return resp, nil
}

// Me fetches the account behind the held token.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	resp, err := c.doProtected(ctx, http.MethodGet, "/users/me", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &account, nil
}

// Indexes lists the document indexes available for questioning.
func (c *Client) Indexes(ctx context.Context) ([]string, error) {
	resp, err := c.doProtected(ctx, http.MethodGet, "/indexes", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var result struct {
		Indexes []string `json:"indexes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return result.Indexes, nil
}

// Ask poses a question against the named index and returns the answer.
func (c *Client) Ask(ctx context.Context, index, question string, topK int) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"question": question,
		"top_k":    topK,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.doProtected(ctx, http.MethodPost, "/qa/"+url.PathEscape(index), "application/json", strings.NewReader(string(payload)))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	return result.Answer, nil
}

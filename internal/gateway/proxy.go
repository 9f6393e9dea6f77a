// ABOUTME: Bearer-protected pass-through to the document-index/QA backend
// ABOUTME: Forwards /indexes and /qa/{index} requests opaquely to the configured upstream

package gateway

import (
	"io"
	"net/http"
	"strings"

	"github.com/paperchat/paperchat-gateway/internal/auth"
)

// handleIndexes handles GET /indexes requests by forwarding them upstream.
func (g *Gateway) handleIndexes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	g.forwardUpstream(w, r, "/indexes")
}

// handleQA handles POST /qa/{index} requests by forwarding them upstream.
func (g *Gateway) handleQA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	index := strings.TrimPrefix(r.URL.Path, "/qa/")
	if index == "" || strings.Contains(index, "/") {
		g.sendJSONError(w, http.StatusBadRequest, "index name is required")
		return
	}

	g.forwardUpstream(w, r, "/qa/"+index)
}

// forwardUpstream relays the request to the configured backend and copies the
// response back verbatim. The upstream is opaque: status, headers relevant to
// the body, and payload pass through untouched. The bearer token is not
// forwarded; the verified username travels in X-Paperchat-User instead.
func (g *Gateway) forwardUpstream(w http.ResponseWriter, r *http.Request, path string) {
	if g.config.Upstream.BaseURL == "" {
		g.sendJSONError(w, http.StatusServiceUnavailable, "upstream not configured")
		return
	}

	identity := auth.MustFromContext(r.Context())

	url := strings.TrimSuffix(g.config.Upstream.BaseURL, "/") + path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("failed to build upstream request", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set("X-Paperchat-User", identity.Username)

	resp, err := g.upstream.Do(req)
	if err != nil {
		g.logger.Error("upstream request failed", "path", path, "error", err)
		g.sendJSONError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Error("failed to copy upstream response", "path", path, "error", err)
	}
}

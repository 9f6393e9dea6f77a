// Package gateway wires the auth service and the upstream document-index/QA
// proxy into a single HTTP server.
//
// # Routes
//
// Public:
//
//   - POST /register - create an account (JSON body)
//   - POST /login    - exchange form credentials for a bearer token
//   - GET  /healthz  - liveness plus account count
//
// Bearer-protected (auth.Middleware):
//
//   - GET  /users/me   - public view of the token's account
//   - GET  /indexes    - forwarded to the upstream backend
//   - POST /qa/{index} - forwarded to the upstream backend
//
// # Error contract
//
// Failures carry a stable status code and a short JSON {"error": ...} body.
// Validation failures and duplicate identities are 400, bad credentials and
// bad tokens 401, orphaned tokens 404, storage faults a generic 500 that
// never leaks driver detail, unreachable upstream 502.
package gateway

// Package session implements the client side of the gateway API.
//
// # State machine
//
// A Client is anonymous until Login succeeds, after which the bearer token
// is attached to every protected call. When any protected call comes back
// 401 - expired token, tampered token, whatever the cause - the client
// discards the token and returns ErrUnauthorized, so the caller always knows
// re-authentication is required. The trigger is purely the response status,
// independent of which endpoint rejected the call.
package session

// ABOUTME: Authenticated identity propagation through request handlers
// ABOUTME: Provides WithIdentity/FromContext for carrying the verified subject via context

package auth

import (
	"context"
)

// Identity holds the authenticated identity extracted from a bearer token.
// This is populated by the auth middleware and retrieved from context in handlers.
type Identity struct {
	Username string // subject claim of the verified token
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not present.
// Only call this from handlers guarded by the auth middleware.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}

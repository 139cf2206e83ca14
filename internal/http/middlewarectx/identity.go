// Package middlewarectx contains the HTTP middleware that authenticates
// requests and threads a typed identity through the request context.
package middlewarectx

import "context"

// Key is the context key type for request-scoped values.
type Key string

// IdentityKey is the single context key under which the authenticated
// identity lives.
const IdentityKey Key = "identity"

// Identity is the closed set of fields describing the authenticated caller.
// It is built once by the auth middleware from the session token and never
// re-derived downstream.
type Identity struct {
	UserUID string
	Name    string
	Email   string
	Role    string
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the identity. Used by the
// middleware and by handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

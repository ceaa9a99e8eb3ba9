// Package authctx propagates the authenticated identity through a request
// context. Handlers read the identity the middleware attached instead of
// re-verifying the token or re-querying the user.
package authctx

import (
	"context"
	"errors"

	"github.com/skillsenselab/identity/model"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is present in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the authenticated identity in the context.
func Set(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get retrieves the authenticated identity from the context.
func Get(ctx context.Context) (*model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*model.Identity)
	return id, ok
}

// MustGet retrieves the identity and panics if it is missing. Use only in
// handlers behind the auth middleware, which guarantees the identity exists.
func MustGet(ctx context.Context) *model.Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// GetOrError retrieves the identity or returns ErrNoIdentity.
func GetOrError(ctx context.Context) (*model.Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return id, nil
}

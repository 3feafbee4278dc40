// Package identity carries the signed-in user and active organization.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is who is acting and in which organization. OrgID is empty when
// the user operates outside any organization.
type Identity struct {
	UserID string
	OrgID  string
}

// HasOrganization reports whether an organization is active.
func (i Identity) HasOrganization() bool {
	return i.OrgID != ""
}

type identityKey struct{}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity from context, if present.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Resolver resolves an identity from a bearer token.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

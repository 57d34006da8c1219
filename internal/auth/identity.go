package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityKeyType struct{}

var identityKey identityKeyType

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// IdentityFromClaims converts verified claims into an Identity.
func IdentityFromClaims(c *Claims) (Identity, error) {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: uid, Email: c.Email}, nil
}

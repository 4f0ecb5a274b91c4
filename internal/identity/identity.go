// Package identity resolves the signed-in owner for a request. The owner is
// carried as an explicit context value so nothing downstream depends on
// ambient global state.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingToken is returned when the request carries no bearer token.
	ErrMissingToken = errors.New("owner identification required")

	// ErrUnknownToken is returned when the token resolves to no owner.
	ErrUnknownToken = errors.New("unknown access token")
)

// Owner is the authenticated owner of the records being touched.
type Owner struct {
	OwnerID     string `json:"ownerId"`
	DisplayName string `json:"displayName,omitempty"`
}

// Provider validates a bearer token and yields the owner behind it.
type Provider interface {
	Resolve(ctx context.Context, token string) (*Owner, error)
}

// TokenFromRequest extracts the bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}
	return parts[1], nil
}

type ctxKey struct{}

// WithOwner returns a context carrying the resolved owner.
func WithOwner(ctx context.Context, o *Owner) context.Context {
	return context.WithValue(ctx, ctxKey{}, o)
}

// FromContext returns the owner resolved by the identity middleware.
func FromContext(ctx context.Context) (*Owner, bool) {
	o, ok := ctx.Value(ctxKey{}).(*Owner)
	return o, ok
}

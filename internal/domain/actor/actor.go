// Package actor carries the authenticated caller through a request context.
// Every mutating service operation requires one.
package actor

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthenticated indicates a mutation was attempted without an actor.
var ErrUnauthenticated = errors.New("no authenticated actor")

type actorKey struct{}

// WithActor returns a context carrying the actor ID.
func WithActor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// FromContext returns the actor ID, if present.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// Require returns the actor ID or ErrUnauthenticated.
func Require(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}

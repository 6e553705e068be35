package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aceweb/agencyops/internal/domain/actor"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ActorResolver resolves an actor ID from a bearer token.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (string, error)
}

// AuthMiddleware enforces bearer token authentication on plain HTTP routes
// and stores the actor in the request context.
func AuthMiddleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			actorID, err := resolver.ResolveActor(r.Context(), token)
			if err != nil || actorID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), actorID)))
		})
	}
}

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"palika_profile/config"
)

// Roles known to the policy. Reads are open to anonymous callers; only the
// administrator may write.
const (
	RoleAnonymous = "anonymous"
	RoleAdmin     = "admin"
)

// Actions a procedure can request authorization for.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Actor struct {
	Role string
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

type actorKey struct{}

// ActorMiddleware resolves the caller from the Authorization header and
// attaches the actor to the request context. An unknown or missing token
// yields an anonymous actor rather than an error; the policy decides what
// anonymous callers may do.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := Actor{Role: RoleAnonymous}

		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			admin := config.AdminAPIToken()
			if admin != "" && subtle.ConstantTimeCompare([]byte(token), []byte(admin)) == 1 {
				actor.Role = RoleAdmin
			}
		}

		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the caller resolved by ActorMiddleware.
func ActorFromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorKey{}).(Actor); ok {
		return actor
	}
	return Actor{Role: RoleAnonymous}
}

// Authorize is the single policy decision point for every procedure. The
// resource parameter (feature key or registry name) is unused by the current
// policy but is part of the contract so resource-scoped roles can be added
// without touching call sites.
func Authorize(actor Actor, action string, resource string) Decision {
	if action == ActionRead {
		return Allow
	}
	if actor.Role == RoleAdmin {
		return Allow
	}
	return Deny
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	anon := Actor{Role: RoleAnonymous}
	admin := Actor{Role: RoleAdmin}

	assert.Equal(t, Allow, Authorize(anon, ActionRead, "delivery-place"))
	assert.Equal(t, Deny, Authorize(anon, ActionCreate, "delivery-place"))
	assert.Equal(t, Deny, Authorize(anon, ActionUpdate, "roads"))
	assert.Equal(t, Deny, Authorize(anon, ActionDelete, "roads"))

	assert.Equal(t, Allow, Authorize(admin, ActionRead, "roads"))
	assert.Equal(t, Allow, Authorize(admin, ActionCreate, "roads"))
	assert.Equal(t, Allow, Authorize(admin, ActionUpdate, "delivery-place"))
	assert.Equal(t, Allow, Authorize(admin, ActionDelete, "delivery-place"))
}

func actorProbe(t *testing.T, authorization string) Actor {
	t.Helper()
	var got Actor
	handler := ActorMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestActorMiddleware(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "s3cret")

	assert.Equal(t, RoleAnonymous, actorProbe(t, "").Role)
	assert.Equal(t, RoleAnonymous, actorProbe(t, "Bearer wrong").Role)
	assert.Equal(t, RoleAnonymous, actorProbe(t, "Basic s3cret").Role)
	assert.Equal(t, RoleAdmin, actorProbe(t, "Bearer s3cret").Role)
}

func TestActorMiddlewareDisabledWhenTokenUnset(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "")

	// With no configured token every caller stays anonymous, even one
	// presenting an empty bearer token.
	assert.Equal(t, RoleAnonymous, actorProbe(t, "Bearer ").Role)
	assert.Equal(t, RoleAnonymous, actorProbe(t, "Bearer anything").Role)
}

func TestActorFromContextDefaultsToAnonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, RoleAnonymous, ActorFromContext(req.Context()).Role)
}

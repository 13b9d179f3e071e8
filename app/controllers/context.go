package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/zaika/pkg/auth"
	"github.com/shashiranjanraj/zaika/pkg/middleware"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

// caller pulls the identity resolved by the auth middleware. Routes behind
// middleware.Auth always have one; the ok path guards against wiring
// mistakes rather than real traffic.
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
	}
	return id, ok
}

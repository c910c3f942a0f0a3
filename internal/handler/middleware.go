package handler

import (
	"context"
	"net/http"
	"strings"

	"sweetshop/backend/internal/inventory"
	"sweetshop/backend/internal/model"
)

type contextKey struct{}

var profileKey = contextKey{}

// authenticate resolves the bearer token with the identity provider, loads
// the caller's profile and stashes it in the request context. Anything
// short of a full resolution is a 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "invalid authentication credentials")
			return
		}

		userID, err := h.identity.ResolveToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid authentication credentials")
			return
		}

		profile, err := h.profiles.GetProfile(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid authentication credentials")
			return
		}

		ctx := context.WithValue(r.Context(), profileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerProfile(ctx context.Context) (model.Profile, bool) {
	p, ok := ctx.Value(profileKey).(model.Profile)
	return p, ok
}

// require gates a handler behind the access policy. The check depends only
// on (role, operation), never on resource state.
func (h *Handler) require(op inventory.Operation, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := callerProfile(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid authentication credentials")
			return
		}
		if !inventory.Allowed(profile.Role, op) {
			writeError(w, http.StatusForbidden, inventory.ErrForbidden.Error())
			return
		}
		next(w, r)
	}
}

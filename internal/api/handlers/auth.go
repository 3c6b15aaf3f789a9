package handlers

import (
	"context"
	"net/http"
	"strconv"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

type ctxKey string

const userKey ctxKey = "current_user"

// Authenticate resolves the acting user from the trusted X-User-Id header set
// by the upstream gateway (session issuance is outside this service) and puts
// the loaded user on the request context. Missing, malformed, or unknown ids
// are rejected with 401.
func Authenticate(users ports.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-Id")
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "missing X-User-Id header")
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "invalid X-User-Id header")
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "unknown user")
				return
			}
			if !user.Active {
				writeError(w, r, http.StatusUnauthorized, "user is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the authenticated user placed on the context by
// Authenticate. The zero User is returned when the middleware did not run.
func currentUser(ctx context.Context) domain.User {
	user, _ := ctx.Value(userKey).(domain.User)
	return user
}

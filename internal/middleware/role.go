package middleware

import (
	"net/http"

	"github.com/unisism/transport-api/internal/domain"
)

// RoleHeader carries the caller's profile, injected by the authenticating
// reverse proxy in front of this service. The service trusts the header and
// only performs the capability check.
const RoleHeader = "X-Role"

// RequireRole returns a middleware that rejects requests whose role header
// is missing, unknown, or not capable of op. The check is a plain
// set-membership test against the closed role enumeration — no string
// comparison against ad hoc profile names.
func RequireRole(op domain.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := domain.ParseRole(r.Header.Get(RoleHeader))
			if err != nil || !role.Can(op) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

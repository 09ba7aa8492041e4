// Package api implements the Folio REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/calder/folio/internal/auth"
)

// SessionChecker validates a session token. *auth.Gate satisfies it.
type SessionChecker interface {
	Check(token string) bool
}

var _ SessionChecker = (*auth.Gate)(nil)

// RequireSession returns middleware guarding mutating routes. A nil gate
// means the gate is disabled and all requests pass through. Otherwise the
// request must carry "Authorization: Bearer <token>" with a token issued
// by a prior login.
func RequireSession(gate SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || !gate.Check(token) {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

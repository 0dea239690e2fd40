package mockserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/precifi/precifi-go/session"
)

type contextKey int

const userKey contextKey = iota

// requireBearer authenticates the Authorization bearer header and stores
// the resolved user on the request context.
func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		s.mu.Lock()
		email, valid := s.tokens[token]
		var user session.User
		if valid {
			user = s.accounts[email].user
		}
		s.mu.Unlock()

		if !valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the authenticated user stored by requireBearer.
func userFrom(ctx context.Context) (session.User, bool) {
	u, ok := ctx.Value(userKey).(session.User)
	return u, ok
}

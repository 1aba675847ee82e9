package token

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFrom extracts the verified principal stored by Authorize.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Exposed for
// handler tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authorize gates a handler behind bearer-token verification. On success
// the principal is attached to the request context; on any failure the
// request short-circuits with 401 and a stable error body.
func (s *Service) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			unauthorized(w, "No token provided")
			return
		}
		raw := strings.TrimSpace(auth[len("bearer "):])
		p, err := s.Verify(raw)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

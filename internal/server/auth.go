package server

import (
	"context"
	"net/http"

	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/ulm"
)

// identityFromContext returns the verified principal on an authenticated
// request, or nil when authentication is disabled.
func identityFromContext(ctx context.Context) *ulm.Identity {
	id, _ := ctx.Value(identityKey).(*ulm.Identity)
	return id
}

// requireAuth verifies the bearer token on mutating routes. With no
// verifier configured the middleware is a passthrough - local
// development against the in-memory store runs without ULM.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		bearer := r.Header.Get("Authorization")
		if bearer == "" {
			s.respondError(w, r, errors.New(errors.ErrCodeUnauthorized, "missing Authorization header"))
			return
		}

		identity, err := s.verifier.Verify(r.Context(), bearer)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package server

import (
	"net/http"

	"github.com/sysmap/sam/pkg/buildinfo"
)

// handleHealth serves GET /health: process liveness only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sam",
		"version": buildinfo.Version,
	})
}

// handleReady serves GET /ready: liveness plus a store ping, so a load
// balancer stops routing to an instance that lost its database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", "err", err)
		s.respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "store unreachable",
		})
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

package server

import (
	"net/http"
	"strconv"

	"github.com/sysmap/sam/pkg/depgraph"
	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/i18n"
)

// handleGraph serves GET /api/v1/graph: the full node-link payload with
// per-node counts and global stats.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	payload, _, err := s.svc.Graph(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, payload)
}

// handleTree serves GET /api/v1/graph/tree/{app_id}?max_depth=.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "app_id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	maxDepth, err := queryInt(r, "max_depth", depgraph.DefaultTreeDepth)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := errors.ValidateMaxDepth(maxDepth); err != nil {
		s.respondError(w, r, err)
		return
	}

	tree, _, err := s.svc.Tree(r.Context(), id, maxDepth)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.applicationNotFound(w, r, id)
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, tree)
}

// handlePath serves GET /api/v1/graph/path?from_app={id}&to_app={id}.
// An unreachable target is a valid 200 result with found=false, not an
// error; unknown endpoints are 404s.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	fromID, err := queryID(r, "from_app")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	toID, err := queryID(r, "to_app")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, _, err := s.svc.Path(r.Context(), fromID, toID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.respondErrorKey(w, r, err, "errors.application_not_found",
				i18n.Params{"id": strconv.FormatInt(fromID, 10) + "/" + strconv.FormatInt(toID, 10)})
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, result)
}

// handleCircular serves GET /api/v1/graph/circular.
func (s *Server) handleCircular(w http.ResponseWriter, r *http.Request) {
	result, _, err := s.svc.Cycles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, result)
}

// handleCritical serves GET /api/v1/graph/critical.
func (s *Server) handleCritical(w http.ResponseWriter, r *http.Request) {
	result, _, err := s.svc.Critical(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, result)
}

// handleStats serves GET /api/v1/graph/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, _, err := s.svc.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, stats)
}

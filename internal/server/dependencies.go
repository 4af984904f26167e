package server

import (
	"net/http"
	"strconv"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/i18n"
	"github.com/sysmap/sam/pkg/store"
)

// handleListDependencies serves GET /api/v1/dependencies with optional
// consumer_id/provider_id filters. Responses carry resolved endpoint
// display names.
func (s *Server) handleListDependencies(w http.ResponseWriter, r *http.Request) {
	var filter store.DependencyFilter
	var err error

	q := r.URL.Query()
	if raw := q.Get("consumer_id"); raw != "" {
		if filter.ConsumerID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid consumer_id: %q", raw))
			return
		}
	}
	if raw := q.Get("provider_id"); raw != "" {
		if filter.ProviderID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid provider_id: %q", raw))
			return
		}
	}
	if filter.Skip, err = queryInt(r, "skip", 0); err != nil {
		s.respondError(w, r, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.respondError(w, r, err)
		return
	}

	deps, err := s.store.ListDependencies(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views, err := s.svc.ResolveDependencies(r.Context(), deps)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, views)
}

// handleGetDependency serves GET /api/v1/dependencies/{id}.
func (s *Server) handleGetDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	dep, err := s.store.GetDependency(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if dep == nil {
		s.dependencyNotFound(w, r, id)
		return
	}

	views, err := s.svc.ResolveDependencies(r.Context(), []catalog.Dependency{*dep})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, views[0])
}

// handleCreateDependency serves POST /api/v1/dependencies.
func (s *Server) handleCreateDependency(w http.ResponseWriter, r *http.Request) {
	var dep catalog.Dependency
	if err := decodeBody(r, &dep); err != nil {
		s.respondError(w, r, err)
		return
	}
	dep.ID = 0

	if err := s.svc.CreateDependency(r.Context(), &dep); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, &dep)
}

// handleUpdateDependency serves PUT /api/v1/dependencies/{id}.
func (s *Server) handleUpdateDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var dep catalog.Dependency
	if err := decodeBody(r, &dep); err != nil {
		s.respondError(w, r, err)
		return
	}
	dep.ID = id

	if err := s.svc.UpdateDependency(r.Context(), &dep); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.dependencyNotFound(w, r, id)
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, &dep)
}

// handleDeleteDependency serves DELETE /api/v1/dependencies/{id}.
func (s *Server) handleDeleteDependency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.DeleteDependency(r.Context(), id); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.dependencyNotFound(w, r, id)
			return
		}
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dependencyNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	s.respondErrorKey(w, r,
		errors.New(errors.ErrCodeNotFound, "dependency %d not found", id),
		"errors.dependency_not_found", i18n.Params{"id": strconv.FormatInt(id, 10)})
}

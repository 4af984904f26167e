package server

import (
	"net/http"
	"strconv"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/i18n"
	"github.com/sysmap/sam/pkg/store"
)

// handleListApplications serves GET /api/v1/applications with optional
// type/status/category filters and skip/limit paging.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ApplicationFilter{
		Category: q.Get("category"),
	}
	if raw := q.Get("type"); raw != "" {
		filter.Type = catalog.ParseAppType(raw)
		if !filter.Type.Known() {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidType, "unknown application type: %q", raw))
			return
		}
	}
	if raw := q.Get("status"); raw != "" {
		filter.Status = catalog.ParseAppStatus(raw)
		if !filter.Status.Known() {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidStatus, "unknown application status: %q", raw))
			return
		}
	}

	var err error
	if filter.Skip, err = queryInt(r, "skip", 0); err != nil {
		s.respondError(w, r, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.respondError(w, r, err)
		return
	}

	apps, err := s.store.ListApplications(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, apps)
}

// handleSearchApplications serves GET /api/v1/applications/search?q=.
func (s *Server) handleSearchApplications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "q is required"))
		return
	}

	apps, err := s.store.SearchApplications(r.Context(), query, 0)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, apps)
}

// handleGetApplication serves GET /api/v1/applications/{id}.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if app == nil {
		s.applicationNotFound(w, r, id)
		return
	}
	s.respondJSON(w, r, http.StatusOK, app)
}

// handleGetApplicationByCode serves GET /api/v1/applications/code/{code}.
func (s *Server) handleGetApplicationByCode(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")

	app, err := s.store.GetApplicationByCode(r.Context(), code)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if app == nil {
		s.respondErrorKey(w, r,
			errors.New(errors.ErrCodeNotFound, "application %q not found", code),
			"errors.application_not_found", i18n.Params{"id": code})
		return
	}
	s.respondJSON(w, r, http.StatusOK, app)
}

// handleCreateApplication serves POST /api/v1/applications.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app catalog.Application
	if err := decodeBody(r, &app); err != nil {
		s.respondError(w, r, err)
		return
	}
	app.ID = 0

	if err := s.svc.CreateApplication(r.Context(), &app); err != nil {
		if errors.Is(err, errors.ErrCodeConflict) {
			s.respondErrorKey(w, r, err, "errors.duplicate_code", i18n.Params{"code": app.Code})
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, &app)
}

// handleUpdateApplication serves PUT /api/v1/applications/{id}.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var app catalog.Application
	if err := decodeBody(r, &app); err != nil {
		s.respondError(w, r, err)
		return
	}
	app.ID = id

	if err := s.svc.UpdateApplication(r.Context(), &app); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.applicationNotFound(w, r, id)
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, &app)
}

// handleDeleteApplication serves DELETE /api/v1/applications/{id}.
// Deleting an application cascades to its dependencies and routes.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.svc.DeleteApplication(r.Context(), id); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			s.applicationNotFound(w, r, id)
			return
		}
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListRoutes serves GET /api/v1/applications/{id}/routes.
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if ok := s.ensureApplication(w, r, id); !ok {
		return
	}

	routes, err := s.store.ListRoutes(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, routes)
}

// handleListDeployments serves GET /api/v1/applications/{id}/deployments.
func (s *Server) handleListDeployments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if ok := s.ensureApplication(w, r, id); !ok {
		return
	}

	deployments, err := s.store.ListDeployments(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, deployments)
}

// ensureApplication verifies the application exists, writing the 404
// itself when it doesn't.
func (s *Server) ensureApplication(w http.ResponseWriter, r *http.Request, id int64) bool {
	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return false
	}
	if app == nil {
		s.applicationNotFound(w, r, id)
		return false
	}
	return true
}

func (s *Server) applicationNotFound(w http.ResponseWriter, r *http.Request, id int64) {
	s.respondErrorKey(w, r,
		errors.New(errors.ErrCodeNotFound, "application %d not found", id),
		"errors.application_not_found", i18n.Params{"id": strconv.FormatInt(id, 10)})
}

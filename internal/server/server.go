// Package server exposes the SAM catalog and dependency graph over HTTP.
//
// The REST surface lives under /api/v1: applications CRUD and search,
// dependencies CRUD, and the graph projections (payload, tree, path,
// circular, critical, stats). Reads are public; mutations require a
// bearer token verified against the ULM auth gateway. Error responses
// carry a machine-readable code and a message localized through the
// Accept-Language header.
package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sysmap/sam/internal/config"
	"github.com/sysmap/sam/pkg/i18n"
	"github.com/sysmap/sam/pkg/service"
	"github.com/sysmap/sam/pkg/store"
	"github.com/sysmap/sam/pkg/ulm"
)

// Verifier checks bearer tokens on mutating requests. *ulm.Client
// implements it; tests substitute stubs.
type Verifier interface {
	Verify(ctx context.Context, bearer string) (*ulm.Identity, error)
}

// Options wires a Server's collaborators.
type Options struct {
	Service *service.Service
	Store   store.Store

	// Verifier guards mutations. Nil disables authentication entirely,
	// which is only acceptable for local development.
	Verifier Verifier

	// Bundle localizes error messages. Nil loads the embedded catalogs.
	Bundle *i18n.Bundle

	Logger *log.Logger

	// CORSOrigins lists allowed cross-origin origins; "*" allows any.
	CORSOrigins []string

	// DefaultLanguage overrides the bundle fallback language selection
	// for requests without an Accept-Language header.
	DefaultLanguage string
}

// Server is the SAM HTTP API.
type Server struct {
	svc      *service.Service
	store    store.Store
	verifier Verifier
	bundle   *i18n.Bundle
	logger   *log.Logger
	lang     string
	router   chi.Router
}

// New assembles the router. The returned Server is ready to serve.
func New(opts Options) (*Server, error) {
	bundle := opts.Bundle
	if bundle == nil {
		var err error
		if bundle, err = i18n.New(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = i18n.DefaultLanguage
	}

	s := &Server{
		svc:      opts.Service,
		store:    opts.Store,
		verifier: opts.Verifier,
		bundle:   bundle,
		logger:   logger,
		lang:     lang,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", s.handleListApplications)
			r.Get("/search", s.handleSearchApplications)
			r.Get("/code/{code}", s.handleGetApplicationByCode)
			r.Get("/{id}", s.handleGetApplication)
			r.Get("/{id}/routes", s.handleListRoutes)
			r.Get("/{id}/deployments", s.handleListDeployments)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateApplication)
				r.Put("/{id}", s.handleUpdateApplication)
				r.Delete("/{id}", s.handleDeleteApplication)
			})
		})

		r.Route("/dependencies", func(r chi.Router) {
			r.Get("/", s.handleListDependencies)
			r.Get("/{id}", s.handleGetDependency)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateDependency)
				r.Put("/{id}", s.handleUpdateDependency)
				r.Delete("/{id}", s.handleDeleteDependency)
			})
		})

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", s.handleGraph)
			r.Get("/tree/{app_id}", s.handleTree)
			r.Get("/path", s.handlePath)
			r.Get("/circular", s.handleCircular)
			r.Get("/critical", s.handleCritical)
			r.Get("/stats", s.handleStats)
		})
	})

	s.router = r
	return s, nil
}

// NewFromConfig is a convenience for callers holding a parsed config.
func NewFromConfig(cfg *config.Config, svc *service.Service, st store.Store, verifier Verifier, logger *log.Logger) (*Server, error) {
	return New(Options{
		Service:         svc,
		Store:           st,
		Verifier:        verifier,
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLanguage: cfg.DefaultLanguage,
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the underlying router.
func (s *Server) Handler() http.Handler { return s.router }

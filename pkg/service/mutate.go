package service

import (
	"context"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/observability"
)

// Catalog writes flow through these wrappers so every projection cached
// under the shared prefix is dropped before the write returns. Stale
// graph reads are not an acceptable failure mode: a path or cycle report
// computed from a deleted edge could mask a real misconfiguration.

// Invalidate drops every cached graph projection.
func (s *Service) Invalidate(ctx context.Context) error {
	prefix := s.Keyer.ProjectionPrefix()
	if err := s.Cache.DeletePrefix(ctx, prefix); err != nil {
		return err
	}
	observability.Cache().OnCacheInvalidate(ctx, prefix)
	return nil
}

// invalidateAfter runs a store write and, when it succeeds, invalidates
// the projection cache. A failed invalidation is retried once before the
// failure is logged and swallowed: the write is already durable, and any
// entry that survives both attempts expires by TTL.
func (s *Service) invalidateAfter(ctx context.Context, op string, write func() error) error {
	if err := write(); err != nil {
		return err
	}
	err := s.Invalidate(ctx)
	if err != nil {
		err = s.Invalidate(ctx)
	}
	if err != nil {
		s.Logger.Warn("invalidate projection cache", "op", op, "err", err)
	}
	return nil
}

// CreateApplication validates and stores a new application.
func (s *Service) CreateApplication(ctx context.Context, app *catalog.Application) error {
	if err := app.Validate(); err != nil {
		return err
	}
	return s.invalidateAfter(ctx, "create application", func() error {
		return s.Store.CreateApplication(ctx, app)
	})
}

// UpdateApplication validates and persists changes to an application.
func (s *Service) UpdateApplication(ctx context.Context, app *catalog.Application) error {
	if err := app.Validate(); err != nil {
		return err
	}
	return s.invalidateAfter(ctx, "update application", func() error {
		return s.Store.UpdateApplication(ctx, app)
	})
}

// DeleteApplication removes an application and everything referencing it.
func (s *Service) DeleteApplication(ctx context.Context, id int64) error {
	return s.invalidateAfter(ctx, "delete application", func() error {
		return s.Store.DeleteApplication(ctx, id)
	})
}

// CreateDependency validates and stores a new dependency edge.
func (s *Service) CreateDependency(ctx context.Context, dep *catalog.Dependency) error {
	if err := dep.Validate(); err != nil {
		return err
	}
	return s.invalidateAfter(ctx, "create dependency", func() error {
		return s.Store.CreateDependency(ctx, dep)
	})
}

// UpdateDependency validates and persists changes to a dependency edge.
func (s *Service) UpdateDependency(ctx context.Context, dep *catalog.Dependency) error {
	if err := dep.Validate(); err != nil {
		return err
	}
	return s.invalidateAfter(ctx, "update dependency", func() error {
		return s.Store.UpdateDependency(ctx, dep)
	})
}

// DeleteDependency removes a dependency edge.
func (s *Service) DeleteDependency(ctx context.Context, id int64) error {
	return s.invalidateAfter(ctx, "delete dependency", func() error {
		return s.Store.DeleteDependency(ctx, id)
	})
}

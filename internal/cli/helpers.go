package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sysmap/sam/internal/config"
	"github.com/sysmap/sam/pkg/cache"
	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/service"
	"github.com/sysmap/sam/pkg/store"
)

// appName is used for per-user directories (e.g., ~/.cache/sam).
const appName = "sam"

// loadConfig loads the effective configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// openStore opens the configured persistence backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		return store.NewMemoryStore(), nil
	}
}

// openCache opens the configured projection cache backend.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheNone:
		return cache.NewNullCache(), nil
	default:
		return cache.NewMemoryCache(cfg.Cache.Size, cfg.Cache.TTL.Std()), nil
	}
}

// serviceFor wires a Service over an already-open store and cache.
func serviceFor(st store.Store, c cache.Cache, logger *log.Logger) *service.Service {
	return service.New(st, c, cache.NewDefaultKeyer(), logger)
}

// openService assembles a Service from the configuration. The returned
// cleanup closes the store and cache.
func openService(ctx context.Context, cfg *config.Config) (*service.Service, func(), error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c, err := openCache(ctx, cfg)
	if err != nil {
		_ = st.Close(ctx)
		return nil, nil, err
	}

	svc := serviceFor(st, c, loggerFromContext(ctx))
	cleanup := func() {
		_ = c.Close()
		_ = st.Close(context.Background())
	}
	return svc, cleanup, nil
}

// runWithService loads the configuration, opens the store and cache, and
// hands a ready Service to fn. Every query command funnels through here.
func runWithService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, cleanup, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, svc)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cacheDir returns the per-user cache directory for sam, creating it if
// necessary.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}

// resolveApplication looks up an application by numeric id or by code.
// Codes are matched case-insensitively since they are stored uppercase.
func resolveApplication(ctx context.Context, st store.Store, arg string) (*catalog.Application, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		app, err := st.GetApplication(ctx, id)
		if err != nil {
			return nil, err
		}
		if app == nil {
			return nil, fmt.Errorf("application %d not found", id)
		}
		return app, nil
	}

	code := strings.ToUpper(arg)
	app, err := st.GetApplicationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application %q not found", code)
	}
	return app, nil
}

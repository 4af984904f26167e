package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/store"
)

func TestCacheDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}

	want := filepath.Join(tmp, appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("cacheDir() should create the directory: err=%v", err)
	}
}

func TestResolveApplication(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	app := &catalog.Application{
		Code:   "ULM",
		Name:   "User Login Manager",
		Type:   catalog.AppTypeCore,
		Status: catalog.AppStatusActive,
	}
	if err := st.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication() error = %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		got, err := resolveApplication(ctx, st, "1")
		if err != nil {
			t.Fatalf("resolveApplication(1) error = %v", err)
		}
		if got.Code != "ULM" {
			t.Errorf("resolved code = %q, want ULM", got.Code)
		}
	})

	t.Run("by code case-insensitive", func(t *testing.T) {
		got, err := resolveApplication(ctx, st, "ulm")
		if err != nil {
			t.Fatalf("resolveApplication(ulm) error = %v", err)
		}
		if got.ID != app.ID {
			t.Errorf("resolved id = %d, want %d", got.ID, app.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := resolveApplication(ctx, st, "999"); err == nil {
			t.Error("resolveApplication(999) should fail")
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		if _, err := resolveApplication(ctx, st, "NOPE"); err == nil {
			t.Error("resolveApplication(NOPE) should fail")
		}
	})
}

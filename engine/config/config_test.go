package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[app]
name = "probe"

[logging]
level = "debug"

[pools]
semaphores = 16
fences = 2

[external]
semaphore_handle_types = ["opaque_fd", "sync_fd"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Name != "probe" {
		t.Errorf("expected app name 'probe', got %q", cfg.App.Name)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got %q", cfg.Logging.Level)
	}
	if cfg.Pools.Semaphores != 16 || cfg.Pools.Fences != 2 || cfg.Pools.Events != 0 {
		t.Errorf("unexpected pool counts: %+v", cfg.Pools)
	}
	if len(cfg.External.SemaphoreHandleTypes) != 2 {
		t.Errorf("unexpected handle types: %v", cfg.External.SemaphoreHandleTypes)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `[logging]
level = "warn"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Name != "valkyrie" {
		t.Errorf("default app name should survive, got %q", cfg.App.Name)
	}
	if cfg.Pools.Semaphores != 8 {
		t.Errorf("default pre-warm count should survive, got %d", cfg.Pools.Semaphores)
	}
}

func TestLoadRejectsNegativeCounts(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `[pools]
semaphores = -1
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("negative pre-warm counts must not validate")
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `[app]
name = "before"
`)

	reloaded := make(chan *Config, 4)
	w, err := WatchFile(path, func(c *Config) {
		reloaded <- c
	})
	if err != nil {
		t.Fatalf("WatchFile failed: %v", err)
	}
	defer w.Close()

	writeConfig(t, dir, `[app]
name = "after"
`)

	select {
	case cfg := <-reloaded:
		if cfg.App.Name != "after" {
			t.Errorf("expected reloaded name 'after', got %q", cfg.App.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not deliver a reload")
	}
}

// Callers are expected to report this error; it must not be swallowed here.
func TestWatchFileMissingDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	if _, err := WatchFile(path, func(*Config) {}); err == nil {
		t.Fatalf("watching a path in a missing directory must fail")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `[app]
name = "x"
`)
	w, err := WatchFile(path, func(*Config) {})
	if err != nil {
		t.Fatalf("WatchFile failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

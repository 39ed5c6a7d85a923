package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"valentinequest/internal/progress"
)

// StoreConfig selects and configures the progress backend.
type StoreConfig struct {
	Driver     string // "file", "sqlite" or "memory"
	DataDir    string
	SQLitePath string
	TTL        time.Duration
	CacheSize  int
}

func loadStoreConfig() StoreConfig {
	dataDir := getEnvString("DATA_DIR", "data")
	return StoreConfig{
		Driver:     strings.ToLower(getEnvString("STORE_DRIVER", "file")),
		DataDir:    dataDir,
		SQLitePath: getEnvString("SQLITE_PATH", filepath.Join(dataDir, "progress.db")),
		TTL:        getEnvDuration("PROGRESS_TTL", 90*24*time.Hour),
		CacheSize:  getEnvInt("SESSION_CACHE_SIZE", 1024),
	}
}

// newProgressStore opens the configured backend behind an LRU cache. The
// returned closers must be closed on shutdown.
func newProgressStore(cfg StoreConfig) (progress.Store, []io.Closer, error) {
	var (
		backend progress.Store
		closers []io.Closer
	)
	switch cfg.Driver {
	case "file", "":
		dir := filepath.Join(cfg.DataDir, "progress")
		backend = progress.NewFileStore(dir, cfg.TTL)
		logInfo("Storing progress as files in %s", dir)
	case "sqlite":
		st, err := progress.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend = st
		closers = append(closers, st)
		logInfo("Storing progress in SQLite database %s", cfg.SQLitePath)
	case "memory":
		backend = progress.NewMemoryStore()
		logWarn("Storing progress in memory, it will not survive a restart")
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}

	if cfg.CacheSize <= 0 {
		return backend, closers, nil
	}
	cached, err := progress.NewCachedStore(backend, cfg.CacheSize)
	if err != nil {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}
	return cached, closers, nil
}

// runJanitor periodically drops idle sessions from memory and purges stale
// progress from the store until ctx is done.
func (app *App) runJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.sweep(ctx)
		}
	}
}

func (app *App) sweep(ctx context.Context) {
	evicted := app.evictIdleSessions(time.Now().Add(-app.SessionTimeout))
	if evicted > 0 {
		logInfo("Evicted %d idle sessions", evicted)
	}
	p, ok := app.Store.(progress.Purger)
	if !ok {
		return
	}
	if app.ProgressTTL <= 0 {
		return
	}
	if n, err := p.Purge(ctx, app.ProgressTTL); err != nil {
		logWarn("Progress purge failed: %v", err)
	} else if n > 0 {
		logInfo("Purged %d stale progress entries", n)
	}
}

package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"valentinequest/internal/logging"
)

// ErrInvalidKey is returned for keys that are not canonical UUIDs.
var ErrInvalidKey = errors.New("invalid session ID format")

// FileStore keeps one JSON file per key in Dir. Files older than TTL are
// treated as absent and removed on access.
type FileStore struct {
	Dir string
	TTL time.Duration
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string, ttl time.Duration) *FileStore {
	return &FileStore{Dir: dir, TTL: ttl}
}

// path validates key and returns the file it maps to inside Dir.
func (fs *FileStore) path(key string) (string, error) {
	if len(key) != 36 || strings.ContainsAny(key, `/\.`) {
		return "", ErrInvalidKey
	}
	if _, err := uuid.Parse(key); err != nil {
		return "", ErrInvalidKey
	}
	p := filepath.Join(fs.Dir, key+".json")

	absDir, err := filepath.Abs(fs.Dir)
	if err != nil {
		return "", fmt.Errorf("resolve progress dir: %w", err)
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve progress path: %w", err)
	}
	if !strings.HasPrefix(absPath, filepath.Clean(absDir)+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return p, nil
}

// Load reads the progress file for key.
func (fs *FileStore) Load(ctx context.Context, key string) (State, bool) {
	if ctx.Err() != nil {
		return Default(), false
	}
	p, err := fs.path(key)
	if err != nil {
		logging.Warn("Refusing to load progress for session %q: %v", key, err)
		return Default(), false
	}

	info, err := os.Stat(p)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Failed to stat progress file %s: %v", p, err)
		}
		return Default(), false
	}
	if fs.TTL > 0 {
		if age := time.Since(info.ModTime()); age > fs.TTL {
			logging.Info("Progress file is too old (%v, max: %v), removing: %s", age, fs.TTL, p)
			_ = os.Remove(p)
			return Default(), false
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		logging.Warn("Failed to read progress file %s: %v", p, err)
		return Default(), false
	}
	s, err := Decode(data)
	if err != nil {
		logging.Warn("Discarding corrupted progress file %s: %v", p, err)
		_ = os.Remove(p)
		return Default(), false
	}
	return s, true
}

// Save writes s for key. The write goes through a temp file so a crash
// never leaves a truncated blob behind.
func (fs *FileStore) Save(ctx context.Context, key string, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := fs.path(key)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// Clear removes the progress file for key. Missing files are not an error.
func (fs *FileStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := fs.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}

// Purge removes progress files not touched within maxAge.
func (fs *FileStore) Purge(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(fs.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read progress dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed, failed := 0, 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			failed++
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(fs.Dir, entry.Name())); err != nil {
				logging.Warn("Failed to remove old progress file %s: %v", entry.Name(), err)
				failed++
				continue
			}
			removed++
		}
	}
	logging.Info("Progress cleanup completed: removed %d files, %d errors", removed, failed)
	return removed, nil
}

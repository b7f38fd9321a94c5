// Package localcache persists the bounded fallback cache of submissions as a
// JSON file on the client machine.
package localcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// FileName is the fixed storage key of the cache inside its directory.
const FileName = "pilotdesk-pilot-requests.json"

var _ driven.LocalCache = (*FileCache)(nil)

// FileCache stores up to driven.LocalCacheCap submissions, most recent first.
// Every write replaces the file atomically.
type FileCache struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// New returns a FileCache stored at path.
func New(path string, logger *slog.Logger) *FileCache {
	return &FileCache{path: path, logger: logger}
}

// DefaultPath returns the cache file location under the user's cache
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(dir, "pilotdesk", FileName), nil
}

// Path returns the file backing the cache.
func (c *FileCache) Path() string { return c.path }

// Record prepends subs in order and drops the oldest entries past the cap.
func (c *FileCache) Record(_ context.Context, subs ...model.Submission) error {
	if len(subs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.read()
	next := make([]entry, 0, len(items)+len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		next = append(next, toEntry(subs[i]))
	}
	next = append(next, items...)
	if len(next) > driven.LocalCacheCap {
		next = next[:driven.LocalCacheCap]
	}

	return c.write(next)
}

// List returns the cached submissions, most recent first. A missing or
// unreadable file lists as empty.
func (c *FileCache) List(_ context.Context) ([]model.Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.read()
	subs := make([]model.Submission, 0, len(items))
	for _, e := range items {
		subs = append(subs, e.toModel())
	}
	return subs, nil
}

// Clear removes the cache file.
func (c *FileCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove local cache: %w", err)
	}
	return nil
}

func (c *FileCache) read() []entry {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("local cache unreadable, treating as empty", "path", c.path, "error", err)
		}
		return nil
	}

	var items []entry
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("local cache corrupt, treating as empty", "path", c.path, "error", err)
		return nil
	}
	if len(items) > driven.LocalCacheCap {
		items = items[:driven.LocalCacheCap]
	}
	return items
}

func (c *FileCache) write(items []entry) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create local cache dir: %w", err)
	}
	if err := atomic.WriteFile(c.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write local cache: %w", err)
	}
	return nil
}

// entry is the on-disk form of a cached submission.
type entry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Comment   string    `json:"comment,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

func toEntry(s model.Submission) entry {
	return entry{
		ID:        s.ID,
		Email:     s.Email,
		Company:   s.Company,
		Comment:   s.Comment,
		Country:   s.Country,
		CreatedAt: s.CreatedAt.UTC(),
		Source:    string(s.Source),
	}
}

func (e entry) toModel() model.Submission {
	source := model.Source(e.Source)
	if source == "" {
		source = model.SourceLocal
	}
	return model.Submission{
		ID:        e.ID,
		Email:     e.Email,
		Company:   e.Company,
		Comment:   e.Comment,
		Country:   e.Country,
		CreatedAt: e.CreatedAt.UTC(),
		Source:    source,
	}
}

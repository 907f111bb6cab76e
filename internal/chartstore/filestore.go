package chartstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"gopkg.in/yaml.v3"
)

// FileExt is the extension of chart files in a FileStore directory.
const FileExt = ".yml"

var _ Store = (*FileStore)(nil)

// FileStore keeps one yaml document per chart, named <id>.yml, in a
// directory. Files may be edited by hand; a Watcher reports such edits.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// by InitSchema.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's directory.
func (s *FileStore) Dir() string { return s.dir }

// InitSchema creates the store directory.
func (s *FileStore) InitSchema(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("filestore: create %s: %w", s.dir, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+FileExt)
}

func (s *FileStore) Put(_ context.Context, cfg *chart.Config) (*chart.Config, error) {
	if err := checkID(cfg.ID); err != nil {
		return nil, fmt.Errorf("filestore: put %q: %w", cfg.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rev int64 = 1
	prev, err := s.read(cfg.ID)
	switch {
	case err == nil:
		rev = prev.Revision + 1
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	stored, err := prepare(cfg, rev)
	if err != nil {
		return nil, fmt.Errorf("filestore: put %s: %w", cfg.ID, err)
	}
	data, err := yaml.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("filestore: encode %s: %w", cfg.ID, err)
	}

	// Write to a hidden temp file and rename so readers never see a
	// partial document.
	tmp := filepath.Join(s.dir, "."+cfg.ID+FileExt+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("filestore: write %s: %w", cfg.ID, err)
	}
	if err := os.Rename(tmp, s.path(cfg.ID)); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("filestore: write %s: %w", cfg.ID, err)
	}
	return stored.Clone(), nil
}

func (s *FileStore) Get(_ context.Context, id string) (*chart.Config, error) {
	if err := checkID(id); err != nil {
		return nil, fmt.Errorf("filestore: get %q: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (*chart.Config, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("filestore: get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", id, err)
	}
	var cfg chart.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", id, err)
	}
	// The file name is authoritative.
	cfg.ID = id
	return &cfg, nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: list: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if id, ok := IDFromPath(e.Name()); ok && !e.IsDir() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return fmt.Errorf("filestore: delete %q: %w", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: delete %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("filestore: delete %s: %w", id, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// IDFromPath extracts the chart id from a chart file path. Hidden files and
// other extensions are not chart files.
func IDFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, FileExt) {
		return "", false
	}
	id := strings.TrimSuffix(base, FileExt)
	return id, id != ""
}

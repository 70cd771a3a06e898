// Package file stores timer records in a local JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/urmzd/lampbridge/pkg/lamp"
)

// Store keeps the whole record set in one JSON array. Every operation
// reads the file, and every mutation rewrites it through a temp file and
// rename, so the file is never left half written.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store for path. The file is created on first write.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) List(ctx context.Context) ([]lamp.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Create(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, err := s.load()
	if err != nil {
		return lamp.Timer{}, err
	}

	t.ID = lamp.ID(uuid.NewString())
	if err := s.save(append(timers, t)); err != nil {
		return lamp.Timer{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, err := s.load()
	if err != nil {
		return lamp.Timer{}, err
	}

	i := indexOf(timers, t.ID)
	if i < 0 {
		return lamp.Timer{}, fmt.Errorf("timer %q: %w", t.ID, lamp.ErrNotFound)
	}
	timers[i] = t
	if err := s.save(timers); err != nil {
		return lamp.Timer{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id lamp.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, err := s.load()
	if err != nil {
		return err
	}

	i := indexOf(timers, id)
	if i < 0 {
		return fmt.Errorf("timer %q: %w", id, lamp.ErrNotFound)
	}
	return s.save(append(timers[:i], timers[i+1:]...))
}

// DeleteAll overwrites the file with an empty set.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers, err := s.load()
	if err != nil {
		return 0, err
	}
	if err := s.save([]lamp.Timer{}); err != nil {
		return 0, err
	}
	return len(timers), nil
}

// load returns an empty set when the file does not exist yet.
func (s *Store) load() ([]lamp.Timer, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []lamp.Timer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []lamp.Timer{}, nil
	}

	timers := []lamp.Timer{}
	if err := json.Unmarshal(data, &timers); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return timers, nil
}

func (s *Store) save(timers []lamp.Timer) error {
	tmpPath := s.path + ".tmp"

	data, err := json.MarshalIndent(timers, "", "  ")
	if err != nil {
		return err
	}

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}

func indexOf(timers []lamp.Timer, id lamp.ID) int {
	for i, t := range timers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

const snapshotExt = ".json"

// FileStore keeps one JSON document per session in a directory. Writes go
// to a temp file in the same directory and are renamed over the target, so
// a crash leaves either the old or the new snapshot.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	permFile os.FileMode
	permDir  os.FileMode
	log      logger.Logger
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty snapshot directory", os.ErrInvalid)
	}
	s := &FileStore{
		dir:      dir,
		permFile: 0o644,
		permDir:  0o755,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(dir, s.permDir); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return s, nil
}

// Dir returns the snapshot directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Save(ctx context.Context, session string, snap model.Snapshot) error {
	if err := validSession(session); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeAtomic(s.path(session), data); err != nil {
		s.log.Error(ctx, "snapshot save failed", logger.String("session", session), logger.Error(err))
		return err
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, session string) (model.Snapshot, error) {
	if err := validSession(session); err != nil {
		return model.Snapshot{}, err
	}
	s.mu.Lock()
	data, err := os.ReadFile(s.path(session))
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, session)
	}
	if err != nil {
		return model.Snapshot{}, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn(ctx, "snapshot unreadable", logger.String("session", session), logger.Error(err))
		return model.Snapshot{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, session, err)
	}
	return snap, nil
}

func (s *FileStore) Delete(_ context.Context, session string) error {
	if err := validSession(session); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(session)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, snapshotExt))
	}
	sort.Strings(out)
	return out, nil
}

func (s *FileStore) path(session string) string {
	return filepath.Join(s.dir, session+snapshotExt)
}

func (s *FileStore) writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, s.permFile)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// validSession admits ids that map to a single file name inside the store.
func validSession(session string) error {
	if session == "" || session == "." || session == ".." ||
		strings.ContainsAny(session, `/\`) || strings.HasPrefix(session, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidSession, session)
	}
	return nil
}

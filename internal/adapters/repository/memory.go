package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]model.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]model.Snapshot)}
}

func (s *MemoryStore) Save(ctx context.Context, session string, snap model.Snapshot) error {
	if err := validSession(session); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[session] = cloneSnapshot(snap)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, session string) (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[session]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, session)
	}
	return cloneSnapshot(snap), nil
}

func (s *MemoryStore) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, session)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.snaps))
	for id := range s.snaps {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func cloneSnapshot(snap model.Snapshot) model.Snapshot {
	c := snap
	c.Candidates = model.CloneCandidates(snap.Candidates)
	c.Teams = model.CloneTeams(snap.Teams)
	c.Pool = model.CloneCandidates(snap.Pool)
	c.Order = append([]int(nil), snap.Order...)
	return c
}

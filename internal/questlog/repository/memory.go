package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/questlog/questlog/internal/questlog"
)

// MemoryRepo is an in-memory repository for tests. It is never selected by
// the server; an unreachable Mongo backend falls back to FileRepo.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*questlog.QuestLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*questlog.QuestLog)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*questlog.QuestLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*questlog.QuestLog, 0, len(m.store))
	for _, d := range m.store {
		out = append(out, d.Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*questlog.QuestLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		return d.Clone(), nil
	}
	return nil, fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
}

func (m *MemoryRepo) Put(ctx context.Context, doc *questlog.QuestLog) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[doc.ID] = doc.Clone()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

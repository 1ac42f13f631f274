package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Snapshot
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(s), nil
}

func (m *MemoryStore) Put(ctx context.Context, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.items[s.ID]; ok && s.CreatedAt.IsZero() {
		s.CreatedAt = old.CreatedAt
	}
	prepare(s, time.Now().UTC())
	m.items[s.ID] = clone(s)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Snapshot, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, clone(s))
	}
	sortByUpdated(out)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func clone(s *Snapshot) *Snapshot {
	c := *s
	c.Payload = append([]byte(nil), s.Payload...)
	return &c
}

func sortByUpdated(list []*Snapshot) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

var _ Store = (*MemoryStore)(nil)

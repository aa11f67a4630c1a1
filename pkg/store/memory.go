package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Store. It is safe for concurrent use and copies
// blobs on the way in and out.
type Memory struct {
	mu    sync.RWMutex
	blobs map[int64][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[int64][]byte)}
}

func (m *Memory) Put(_ context.Context, pageID int64, blob []byte) error {
	if err := validatePut(pageID, blob); err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[pageID] = slices.Clone(blob)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, pageID int64) ([]byte, error) {
	if err := validateID(pageID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[pageID]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(blob), nil
}

func (m *Memory) GetMany(_ context.Context, pageIDs []int64) (map[int64][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int64][]byte, len(pageIDs))
	for _, id := range normalizeIDs(pageIDs) {
		if blob, ok := m.blobs[id]; ok {
			out[id] = slices.Clone(blob)
		}
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, pageID int64) error {
	if err := validateID(pageID); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.blobs, pageID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored pages.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

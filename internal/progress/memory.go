package progress

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in process memory. It stores encoded bytes so it
// shares the decode path, and its failure modes, with the durable stores.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load decodes the blob for key.
func (m *MemoryStore) Load(_ context.Context, key string) (State, bool) {
	m.mu.Lock()
	data, ok := m.blobs[key]
	m.mu.Unlock()
	if !ok {
		return Default(), false
	}
	s, err := Decode(data)
	if err != nil {
		return Default(), false
	}
	return s, true
}

// Save encodes s under key.
func (m *MemoryStore) Save(_ context.Context, key string, s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
	return nil
}

// Clear removes key.
func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.blobs, key)
	m.mu.Unlock()
	return nil
}

// Put stores raw bytes under key, bypassing validation.
func (m *MemoryStore) Put(key string, data []byte) {
	m.mu.Lock()
	m.blobs[key] = data
	m.mu.Unlock()
}

// Raw returns the stored bytes for key.
func (m *MemoryStore) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	return data, ok
}

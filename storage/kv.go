// Package storage provides the key-value backends the planning document is
// persisted to. Each backend stores the whole serialized document under a
// single fixed key.
package storage

import (
	"context"
	"sync"
)

// KV stores the serialized planning document.
type KV interface {
	// Load returns the stored document bytes. ok is false when nothing has
	// been stored yet; errors are reserved for backend failures.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	// Save overwrites the stored document.
	Save(ctx context.Context, data []byte) error
}

// MemoryKV keeps the document in process memory. Used by tests and for
// ephemeral runs.
type MemoryKV struct {
	mu   sync.Mutex
	data []byte
	ok   bool
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{}
}

// Seed pre-loads the backend with document bytes, as if a prior session had
// saved them.
func (m *MemoryKV) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.ok = true
}

func (m *MemoryKV) Load(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *MemoryKV) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.ok = true
	return nil
}

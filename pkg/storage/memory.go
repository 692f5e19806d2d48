package storage

import (
	"context"
	"sync"
)

func init() {
	if err := RegisterStorage(&MemoryDB{}); err != nil {
		panic(err)
	}
}

// MemoryDB is an in-memory storage provider intended for tests and local
// development. It is safe for concurrent use.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
	open bool
}

func (m *MemoryDB) Init(_ ...Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string][]byte)
	m.open = true
	return nil
}

func (m *MemoryDB) Type() Type {
	return Memory
}

func (m *MemoryDB) URI() string {
	return "memory://"
}

func (m *MemoryDB) IsOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open
}

func (m *MemoryDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.open = false
	return nil
}

func (m *MemoryDB) Write(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

func (m *MemoryDB) Read(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.data[namespace]
	if !ok {
		return nil, nil
	}
	return ns[key], nil
}

func (m *MemoryDB) Exists(ctx context.Context, namespace, key string) (bool, error) {
	value, err := m.Read(ctx, namespace, key)
	if err != nil {
		return false, err
	}
	return len(value) > 0, nil
}

func (m *MemoryDB) ReadAll(_ context.Context, namespace string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte)
	for k, v := range m.data[namespace] {
		result[k] = v
	}
	return result, nil
}

func (m *MemoryDB) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	return nil
}

func (m *MemoryDB) DeleteNamespace(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace)
	return nil
}

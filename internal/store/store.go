package store

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound сообщает об отсутствии значения по ключу.
	ErrNotFound = errors.New("storage key not found")
	// ErrQuotaExceeded сообщает о превышении квоты хранилища.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store хранит именованные слоты со значениями JSON, как localStorage браузера.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, keys ...string) error
}

// Memory хранит слоты в памяти. maxBytes <= 0 отключает квоту.
type Memory struct {
	mu       sync.RWMutex
	items    map[string][]byte
	maxBytes int
}

// NewMemory создает хранилище в памяти.
func NewMemory(maxBytes int) *Memory {
	return &Memory{items: make(map[string][]byte), maxBytes: maxBytes}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxBytes > 0 && usage(m.items, key, value) > m.maxBytes {
		return ErrQuotaExceeded
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func usage(items map[string][]byte, key string, value []byte) int {
	total := len(key) + len(value)
	for k, v := range items {
		if k == key {
			continue
		}
		total += len(k) + len(v)
	}
	return total
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrBusy сообщает, что блокировку держит другой владелец.
var ErrBusy = errors.New("lock is held by another owner")

// ErrLost сообщает, что ключ перехватил другой владелец. errors.Is(ErrLost, ErrBusy) истинно.
var ErrLost = fmt.Errorf("lease lost: %w", ErrBusy)

// Lease это удерживаемая блокировка. Release безопасно вызывать повторно.
type Lease interface {
	Extend(ctx context.Context, ttl time.Duration) error
	Release()
}

// Locker выдает блокировку на ключ не дольше ttl.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

type holder struct {
	token     uint64
	expiresAt time.Time
}

// Memory блокирует ключи внутри одного процесса.
type Memory struct {
	mu    sync.Mutex
	held  map[string]holder
	seq   uint64
	clock func() time.Time
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]holder), clock: time.Now}
}

func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	if current, ok := m.held[key]; ok && now.Before(current.expiresAt) {
		return nil, ErrBusy
	}
	m.seq++
	m.held[key] = holder{token: m.seq, expiresAt: now.Add(ttl)}
	return &memoryLease{owner: m, key: key, token: m.seq}, nil
}

type memoryLease struct {
	owner *Memory
	key   string
	token uint64
	once  sync.Once
}

// Extend succeeds while nobody else has taken the key, even after expiry.
func (l *memoryLease) Extend(_ context.Context, ttl time.Duration) error {
	m := l.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.held[l.key]
	if !ok || current.token != l.token {
		return ErrLost
	}
	m.held[l.key] = holder{token: l.token, expiresAt: m.clock().Add(ttl)}
	return nil
}

func (l *memoryLease) Release() {
	l.once.Do(func() {
		m := l.owner
		m.mu.Lock()
		defer m.mu.Unlock()
		if current, ok := m.held[l.key]; ok && current.token == l.token {
			delete(m.held, l.key)
		}
	})
}

package queue

import (
	"context"
	"sync"
)

// Medium is the durable key-value capability the Store writes through.
// Set must replace the whole value atomically.
type Medium interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryMedium is an in-process Medium for tests and dry runs.
type MemoryMedium struct {
	mu     sync.Mutex
	values map[string]string
	writes int
	setErr error
}

// NewMemoryMedium returns an empty MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

// Get implements Medium.
func (m *MemoryMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set implements Medium.
func (m *MemoryMedium) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Raw returns the stored value for key.
func (m *MemoryMedium) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

// Writes reports how many successful Set calls were made.
func (m *MemoryMedium) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWrites makes subsequent Set calls return err; pass nil to recover.
func (m *MemoryMedium) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

package pipeline

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Pipeliner. Each call to Exec counts as one
// round trip.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string]interface{}
	execs int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]interface{})}
}

// Exec runs cmds in order against the store.
func (m *MemoryStore) Exec(ctx context.Context, cmds []Command) ([]Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.execs++

	replies := make([]Reply, len(cmds))
	for i, cmd := range cmds {
		replies[i] = m.apply(cmd)
	}
	return replies, nil
}

func (m *MemoryStore) apply(cmd Command) Reply {
	switch cmd.Op {
	case Get:
		val, ok := m.data[cmd.Key]
		if !ok {
			return Reply{Err: ErrNil}
		}
		return Reply{Value: val}
	case Set:
		m.data[cmd.Key] = cmd.Value
		return Reply{Value: "OK"}
	case Del:
		if _, ok := m.data[cmd.Key]; !ok {
			return Reply{Value: int64(0)}
		}
		delete(m.data, cmd.Key)
		return Reply{Value: int64(1)}
	case Exists:
		if _, ok := m.data[cmd.Key]; ok {
			return Reply{Value: int64(1)}
		}
		return Reply{Value: int64(0)}
	default:
		return Reply{Err: ErrUnsupportedOp}
	}
}

// Execs returns the number of round trips made so far.
func (m *MemoryStore) Execs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.execs
}

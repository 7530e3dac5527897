package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Memory is an in-process Store. It suits single instance deployments.
type Memory struct {
	states *sync.Map
}

// NewMemory returns a new, empty Memory store.
func NewMemory() *Memory {
	return &Memory{states: &sync.Map{}}
}

func (m *Memory) Put(ctx context.Context, id string, value Value, ttl time.Duration) error {
	m.states.Store(id, value)

	// Expire the state after some time.
	time.AfterFunc(ttl, func() {
		// Don't use the HTTP request's context here.
		ctx := context.Background()
		if _, present := m.states.LoadAndDelete(id); !present {
			slog.DebugContext(ctx, "state ID utilized before expiry", "stateID", id)
			return
		}
		slog.WarnContext(ctx, "state ID expired", "stateID", id)
	})

	return nil
}

func (m *Memory) Consume(ctx context.Context, id string) (Value, error) {
	valueAny, present := m.states.LoadAndDelete(id)
	if !present {
		return Value{}, ErrNotFound
	}

	value, ok := valueAny.(Value)
	if !ok {
		slog.ErrorContext(ctx, "failed to assert to state Value type", "value", valueAny)
		return Value{}, ErrNotFound
	}

	return value, nil
}

package idempotency

import (
	"context"
	"sync"
	"time"
)

type clocker interface {
	Now() time.Time
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// Memory implements Idempotency in process.
type Memory struct {
	mu      sync.Mutex
	clock   clocker
	entries map[string]memoryEntry
}

// NewMemory returns an in-process tracker driven by clk.
func NewMemory(clk clocker) *Memory {
	return &Memory{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

// Exec mirrors StateTracker.Exec. The lock is not held while fn runs.
func (m *Memory) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	execOpt := resolveOptions(opts...)

	if err := stateError(m.acquire(key, execOpt.lockDuration)); err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		if execOpt.releaseOnError {
			m.delete(key)
		} else {
			m.set(key, StateFailed, execOpt.stateTTL)
		}
		return err
	}

	m.set(key, StateCompleted, execOpt.stateTTL)
	return nil
}

func (m *Memory) acquire(key string, lock time.Duration) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return e.state
	}

	m.entries[key] = memoryEntry{state: StateInProgress, expiresAt: now.Add(lock)}
	return StateNone
}

func (m *Memory) set(key string, state State, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{state: state, expiresAt: m.clock.Now().Add(ttl)}
}

func (m *Memory) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

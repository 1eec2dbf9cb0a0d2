package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fridgebot/backend/internal/domain"
)

// slot is the lock for one user. refs counts holders and waiters so idle slots can be dropped.
type slot struct {
	ch   chan struct{}
	refs int
}

var _ domain.UserLocker = (*Memory)(nil)

// Memory is an in-process keyed lock serializing reconciliation per user
type Memory struct {
	slots map[int64]*slot
	mutex sync.Mutex
	wait  time.Duration
}

// NewMemory creates a keyed lock. wait bounds how long Lock blocks; zero means until
// the context ends.
func NewMemory(wait time.Duration) *Memory {
	return &Memory{
		slots: make(map[int64]*slot),
		wait:  wait,
	}
}

// Lock blocks until the user's lock is free, the wait elapses or ctx is done
func (m *Memory) Lock(ctx context.Context, userID int64) (func(), error) {
	s := m.acquire(userID)

	if m.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.wait)
		defer cancel()
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(userID, s)
		return nil, fmt.Errorf("%w: user %d: %v", domain.ErrLockTimeout, userID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			m.release(userID, s)
		})
	}, nil
}

func (m *Memory) acquire(userID int64) *slot {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s, exists := m.slots[userID]
	if !exists {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[userID] = s
	}
	s.refs++
	return s
}

func (m *Memory) release(userID int64, s *slot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(m.slots, userID)
	}
}

// Size returns the number of users currently holding or waiting for a lock
func (m *Memory) Size() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.slots)
}

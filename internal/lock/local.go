package lock

import (
	"context"
	"fmt"
	"sync"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

type slot struct {
	ch   chan struct{}
	refs int
}

type localLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewLocalLocker returns an in-process OwnerLocker. It only serialises callers
// inside one process; multi-instance deployments need the Redis locker.
func NewLocalLocker() port.OwnerLocker {
	return &localLocker{slots: make(map[string]*slot)}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(key, s)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, s)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockNotObtained, key, ctx.Err())
	}
}

func (l *localLocker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

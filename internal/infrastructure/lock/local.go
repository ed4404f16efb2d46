package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker serialises payments per loan within a single process. It is
// used when no Redis address is configured.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates an empty in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

// Lock blocks until loanID is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, loanID string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[loanID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[loanID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(loanID, s, false)
		return nil, fmt.Errorf("acquire lock for loan %s: %w", loanID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(loanID, s, true) })
	}, nil
}

func (l *LocalLocker) release(loanID string, s *slot, held bool) {
	if held {
		<-s.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, loanID)
	}
}

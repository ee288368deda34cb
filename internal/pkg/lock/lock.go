package lock

import (
	"context"
	"sync"
	"time"
)

// Locker hands out a best-effort, TTL-bounded exclusive lease on a key.
// ok is false when someone else holds it; release is nil in that case.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Local guards keys within one process.
type Local struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocal() *Local {
	return &Local{held: make(map[string]time.Time), now: time.Now}
}

func (l *Local) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, false, nil
	}
	until := now.Add(ttl)
	l.held[key] = until

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		// a lease that expired and was re-acquired belongs to someone else now
		if cur, ok := l.held[key]; ok && cur.Equal(until) {
			delete(l.held, key)
		}
	}
	return release, true, nil
}

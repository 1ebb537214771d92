package tenancy

import (
	"context"
	"sync"
)

// HousingLocker serializes operations that take a housing unit.
// Lock blocks until the lock for housingID is held or ctx is done; the
// returned function releases it and may be called more than once.
type HousingLocker interface {
	Lock(ctx context.Context, housingID string) (unlock func(), err error)
}

// LocalLocker is an in-process keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	slot chan struct{}
	refs int
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

// Lock implements HousingLocker.
func (l *LocalLocker) Lock(ctx context.Context, housingID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[housingID]
	if !ok {
		entry = &localLock{slot: make(chan struct{}, 1)}
		l.locks[housingID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(housingID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.slot
			l.release(housingID, entry)
		})
	}, nil
}

func (l *LocalLocker) release(housingID string, entry *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, housingID)
	}
}

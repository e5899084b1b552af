package service

import "sync"

// entityLocks serialises writers per entity identifier. The local store is
// mutated both by application edits and by the sync engine's merge phase; a
// read-compare-write on the same identifier from two tasks at once would lose
// one of the updates. Locks are kept for the life of the process; the set of
// identifiers on a single device is small.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for id and returns its unlock function.
func (l *entityLocks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

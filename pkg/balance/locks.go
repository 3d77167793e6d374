package balance

import (
	"fmt"
	"sync"
)

// entityLocks hands out one mutex per aggregate key so that read-compute-write
// of a single wallet or category balance is serialized, while different
// aggregates recalculate in parallel.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: map[string]*sync.Mutex{}}
}

// lock acquires the mutex for key and returns its unlock function.
func (l *entityLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func walletKey(id int) string {
	return fmt.Sprintf("wallet/%d", id)
}

func categoryKey(id int) string {
	return fmt.Sprintf("category/%d", id)
}

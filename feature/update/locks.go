package update

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// MangaLocks serialises reconcile and persist passes per manga.
// Every path writing the chapters of a manga must hold its lock while loading and applying.
type MangaLocks struct {
	mu    sync.Mutex
	locks map[int64]*mangaLock
}

type mangaLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewMangaLocks creates an empty lock set.
func NewMangaLocks() *MangaLocks {
	return &MangaLocks{locks: make(map[int64]*mangaLock)}
}

// Lock blocks until the lock of mangaID is held or ctx is done.
// The returned func releases the lock.
func (m *MangaLocks) Lock(ctx context.Context, mangaID int64) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[mangaID]
	if !ok {
		l = &mangaLock{sem: semaphore.NewWeighted(1)}
		m.locks[mangaID] = l
	}
	l.refs++
	m.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		m.put(mangaID, l)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			m.put(mangaID, l)
		})
	}, nil
}

func (m *MangaLocks) put(mangaID int64, l *mangaLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, mangaID)
	}
}

func (m *MangaLocks) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

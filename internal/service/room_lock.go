package service

import "sync"

// roomLock serializes all log mutations for a given room while letting
// distinct rooms proceed in parallel. The load→mutate→persist sequence
// across both participants' rows is not atomic at the storage layer, so
// the lock is held across the whole transaction, store calls included.
// Entries are refcounted and reclaimed once the last holder releases.
type roomLock struct {
	mu    sync.Mutex
	rooms map[string]*roomLockEntry
}

type roomLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRoomLock() *roomLock {
	return &roomLock{rooms: make(map[string]*roomLockEntry)}
}

// Lock acquires the lock for roomID and returns the release func.
func (l *roomLock) Lock(roomID string) func() {
	l.mu.Lock()
	entry, ok := l.rooms[roomID]
	if !ok {
		entry = &roomLockEntry{}
		l.rooms[roomID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.rooms, roomID)
		}
		l.mu.Unlock()
	}
}

package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomLock_SerializesSameRoom(t *testing.T) {
	l := newRoomLock()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("r1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
}

func TestRoomLock_IndependentRooms(t *testing.T) {
	l := newRoomLock()

	unlockA := l.Lock("r1")

	// A second room must not block behind the first.
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("r2")
		unlockB()
		close(done)
	}()
	<-done

	unlockA()
}

func TestRoomLock_ReclaimsEntries(t *testing.T) {
	l := newRoomLock()

	unlock := l.Lock("r1")
	unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	require.Empty(t, l.rooms)
}

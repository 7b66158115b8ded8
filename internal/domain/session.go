package domain

import "sync"

// Session is the per-connection state. The participant identifier is
// populated exactly once, on the first create_room frame.
type Session struct {
	mu   sync.RWMutex
	uuid string
}

func NewSession() *Session {
	return &Session{}
}

// Tag records the participant identifier. Only the first call takes
// effect; a connection is never re-tagged.
func (s *Session) Tag(uuid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uuid == "" {
		s.uuid = uuid
	}
}

func (s *Session) UUID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uuid
}

package cache

import "sync"

// SessionStore is the short-lived, process-local slot holding the
// JSON-serialized selected event. A single fixed slot, overwritten on each
// selection and gone when the process ends.
type SessionStore struct {
	mu       sync.RWMutex
	selected []byte
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// PutSelected overwrites the slot with the serialized event.
func (s *SessionStore) PutSelected(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = append([]byte(nil), data...)
}

// Selected returns the stored bytes, or false when the slot is empty.
func (s *SessionStore) Selected() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil, false
	}
	return append([]byte(nil), s.selected...), true
}

// Clear empties the slot.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

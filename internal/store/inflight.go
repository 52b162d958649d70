package store

import (
	"sync"
	"time"
)

// InFlight tracks which sessions currently have a webhook call running, so a
// session never has two at once. Entries older than ttl are treated as
// abandoned and may be taken over.
type InFlight struct {
	mu        sync.Mutex
	bySession map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewInFlight(ttl time.Duration) *InFlight {
	return &InFlight{
		bySession: make(map[string]time.Time),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TryAcquire marks sessionID busy. It returns false if the session already
// has a live call.
func (m *InFlight) TryAcquire(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if started, ok := m.bySession[sessionID]; ok && (m.ttl <= 0 || now.Sub(started) < m.ttl) {
		return false
	}
	m.bySession[sessionID] = now
	m.purgeLocked(now)
	return true
}

func (m *InFlight) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bySession, sessionID)
}

func (m *InFlight) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySession)
}

func (m *InFlight) purgeLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for sid, started := range m.bySession {
		if now.Sub(started) >= m.ttl {
			delete(m.bySession, sid)
		}
	}
}

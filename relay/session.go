package relay

import (
	"sync"
	"time"
)

// DefaultSessionTimeout is how long a conversation survives without a new
// message before it is treated as fresh.
const DefaultSessionTimeout = time.Hour

// Session is per-user conversation state. It never leaves the process; a
// restart simply starts everyone over.
type Session struct {
	UserID      string
	State       string
	LastTouched time.Time
	Metadata    map[string]string
}

// SessionStore is a process-wide session map with a fixed expiry window.
// All access goes through one mutex.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timeout  time.Duration
	now      func() time.Time
}

func NewSessionStore(timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		now:      time.Now,
	}
}

// GetOrCreate returns the user's live session, replacing it when the expiry
// window has passed. The session's last-touched timestamp is refreshed
// either way.
func (s *SessionStore) GetOrCreate(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[userID]; ok && now.Sub(sess.LastTouched) <= s.timeout {
		sess.LastTouched = now
		return sess
	}

	sess := &Session{
		UserID:      userID,
		State:       "initial",
		LastTouched: now,
		Metadata:    make(map[string]string),
	}
	s.sessions[userID] = sess
	return sess
}

// Update mutates a session under the store lock and refreshes its expiry.
func (s *SessionStore) Update(userID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, State: "initial", Metadata: make(map[string]string)}
		s.sessions[userID] = sess
	}
	fn(sess)
	sess.LastTouched = s.now()
}

func (s *SessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Len reports live (non-expired) sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for _, sess := range s.sessions {
		if now.Sub(sess.LastTouched) <= s.timeout {
			n++
		}
	}
	return n
}

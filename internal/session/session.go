// Package session holds the panel's server-side session state, keyed by
// the XUNLEI_SID cookie.
package session

import "time"

type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session expiring ttl from now.
func New(id string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the idle expiry by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the session mapping. Get is a shared read; Put overwrites;
// Remove is a no-op when the id is absent. Each call is individually
// atomic, nothing more: the panel rewrites only its own session per
// request, so no cross-call transaction is needed.
type Store interface {
	Get(id string) (*Session, bool)
	Put(sess *Session)
	Remove(id string)
	Close() error
}

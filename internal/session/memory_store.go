package session

import (
	"log"
	"sync"
	"time"

	"xunlei/internal/constants"
)

// MemoryStore keeps sessions in a map behind one RWMutex. It lives for
// the process lifetime and is never persisted. Get and Put exchange
// copies, so handlers mutate private state and the map is only touched
// under the lock.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	done     chan struct{}
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (st *MemoryStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	var copied Session
	if ok {
		copied = *sess
	}
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if copied.IsExpired() {
		st.Remove(id)
		return nil, false
	}
	return &copied, true
}

func (st *MemoryStore) Put(sess *Session) {
	copied := *sess
	st.mu.Lock()
	st.sessions[copied.ID] = &copied
	st.mu.Unlock()
}

func (st *MemoryStore) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *MemoryStore) Close() error {
	close(st.done)
	return nil
}

func (st *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(constants.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			st.mu.Lock()
			for id, sess := range st.sessions {
				if sess.IsExpired() {
					delete(st.sessions, id)
					log.Printf("🗑 Expired session cleaned up: %s", id)
				}
			}
			st.mu.Unlock()
		}
	}
}

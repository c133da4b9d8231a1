package game

import "sync"

// SessionStore keeps live sessions. Sessions are never written outside
// the process: a restart ends every game.
type SessionStore interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	List() []*Session
	Len() int
}

type InMemorySessionStore struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		m: make(map[string]*Session),
	}
}

func (s *InMemorySessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID()] = sess
}

func (s *InMemorySessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	return sess, ok
}

func (s *InMemorySessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

func (s *InMemorySessionStore) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.m))
	for _, sess := range s.m {
		out = append(out, sess)
	}
	return out
}

func (s *InMemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

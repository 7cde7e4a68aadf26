package dashboard

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"healthguard/internal/history"
)

const (
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 30 * time.Minute
)

// Store keeps live sessions in memory. Idle sessions expire after the TTL
// and the least recently used ones are evicted past the size cap.
type Store struct {
	mu     sync.Mutex
	cache  *expirable.LRU[string, *Session]
	newGen func() *history.Generator
}

type StoreOption func(*Store)

// WithGenerator supplies the history generator for new sessions.
func WithGenerator(fn func() *history.Generator) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newGen = fn
		}
	}
}

func NewStore(size int, ttl time.Duration, opts ...StoreOption) *Store {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &Store{
		cache:  expirable.NewLRU[string, *Session](size, nil, ttl),
		newGen: func() *history.Generator { return history.New() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns a live session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	s.cache.Add(id, sess)
	return sess, true
}

// GetOrCreate returns the session for id, or a fresh one under a new id
// when id is empty or unknown. created reports which happened.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if existing, ok := s.cache.Get(id); ok {
			s.cache.Add(id, existing)
			return existing, false
		}
	}
	sess = NewSession(uuid.NewString(), s.newGen())
	s.cache.Add(sess.ID(), sess)
	return sess, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

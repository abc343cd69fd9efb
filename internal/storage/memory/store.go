package memory

import (
	"sync"

	"github.com/yndnr/respkv/pkg/resp"
)

// Store maps keys to RESP values.
type Store struct {
	mu   sync.Mutex
	data map[string]resp.Value
}

// Option configures the Store.
type Option func(*Store)

// WithCapacity presizes the table for n keys.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.data = make(map[string]resp.Value, n)
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.data == nil {
		s.data = make(map[string]resp.Value)
	}
	return s
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (resp.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (s *Store) Set(key string, v resp.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = v
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Package store is the host application's state store. It keeps session
// flags that live only for the current run and typed slices of persistent
// state that survive restarts through a Backend.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrAlreadyRegistered is returned when two slices claim the same path.
var ErrAlreadyRegistered = errors.New("state path already registered")

// Backend persists raw slice values by path.
type Backend interface {
	Load(ctx context.Context, path string) ([]byte, bool, error)
	Save(ctx context.Context, path string, value []byte) error
	Close() error
}

// Store holds session state and the registered persistent slices.
type Store struct {
	backend Backend

	mu               sync.RWMutex
	networkConnected bool
	paths            map[string]struct{}
	subscribers      []func(path string, revision uint64)
}

// New creates a store persisting through backend.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		paths:   make(map[string]struct{}),
	}
}

// NetworkConnected reports whether the host believes the network is reachable.
func (s *Store) NetworkConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkConnected
}

// SetNetworkConnected records the host's network availability.
func (s *Store) SetNetworkConnected(connected bool) {
	s.mu.Lock()
	s.networkConnected = connected
	s.mu.Unlock()
}

// Subscribe registers fn to be called after any slice changes.
// fn runs on the writer's goroutine and must not block.
func (s *Store) Subscribe(fn func(path string, revision uint64)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) claim(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paths[path]; ok {
		return ErrAlreadyRegistered
	}
	s.paths[path] = struct{}{}
	return nil
}

func (s *Store) notify(path string, revision uint64) {
	s.mu.RLock()
	subs := append([]func(string, uint64){}, s.subscribers...)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(path, revision)
	}
}

// JoinPath turns a path like ["persistent", "changelogs"] into its storage key.
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}

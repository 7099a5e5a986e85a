package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Slice is one typed piece of persistent state. Set is its only writer;
// every Set replaces the whole value and bumps the revision, so readers
// can detect a change by comparing revisions.
type Slice[T any] struct {
	store *Store
	path  string

	mu       sync.RWMutex
	value    T
	revision uint64
}

// Register claims path in s and loads any persisted value for it.
// When nothing is persisted the slice starts at zero.
func Register[T any](ctx context.Context, s *Store, path []string, zero T) (*Slice[T], error) {
	key := JoinPath(path)
	if err := s.claim(key); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	sl := &Slice[T]{store: s, path: key, value: zero}

	data, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		sl.value = v
		sl.revision = 1
	}

	return sl, nil
}

// Path returns the storage key of the slice.
func (sl *Slice[T]) Path() string {
	return sl.path
}

// Get returns the current value. Slice and map values are shared with the
// store and must be treated as read-only; use Set to change them.
func (sl *Slice[T]) Get() T {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.value
}

// Revision increases by one on every successful Set. Zero means the slice
// has never held a value.
func (sl *Slice[T]) Revision() uint64 {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.revision
}

// Set persists v and then swaps it in. If persisting fails the current
// value is left untouched.
func (sl *Slice[T]) Set(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", sl.path, err)
	}

	if err := sl.store.backend.Save(ctx, sl.path, data); err != nil {
		return fmt.Errorf("saving %s: %w", sl.path, err)
	}

	sl.mu.Lock()
	sl.value = v
	sl.revision++
	rev := sl.revision
	sl.mu.Unlock()

	sl.store.notify(sl.path, rev)
	return nil
}

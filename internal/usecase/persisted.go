package usecase

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/floramarket/storefront/internal/domain"
)

// PersistedStore binds one storage key to one JSON-serializable value
// and fans out change notifications to subscribers.
//
// Reads never fail: a missing key or a corrupt document falls back to
// the caller-supplied default. Writes are write-through and never
// surface storage failures.
type PersistedStore[T any] struct {
	kv       domain.KeyValue
	key      string
	fallback func() T

	mutex   sync.Mutex
	nextSub int
	subs    map[int]func(T)
}

// NewPersistedStore creates a store for key. fallback produces the
// value returned when storage has nothing usable.
func NewPersistedStore[T any](kv domain.KeyValue, key string, fallback func() T) *PersistedStore[T] {
	return &PersistedStore[T]{
		kv:       kv,
		key:      key,
		fallback: fallback,
		subs:     make(map[int]func(T)),
	}
}

// Read returns the stored value, or the fallback when the key is
// missing or the stored document does not decode.
func (s *PersistedStore[T]) Read() T {
	data, err := s.kv.Get(s.key)
	if err != nil {
		return s.fallback()
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		log.Printf("[STORE] corrupt document under %q, using default: %v", s.key, err)
		return s.fallback()
	}
	return value
}

// Write persists value and notifies subscribers. A storage failure is
// logged and swallowed; subscribers are notified regardless so the
// in-memory state stays the source of truth.
func (s *PersistedStore[T]) Write(value T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[STORE] failed to encode %q: %v", s.key, err)
	} else if err := s.kv.Set(s.key, data); err != nil {
		log.Printf("[STORE] failed to persist %q: %v", s.key, err)
	}

	s.mutex.Lock()
	listeners := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mutex.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Subscribe registers a change listener and returns its unsubscribe func.
func (s *PersistedStore[T]) Subscribe(fn func(T)) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.subs, id)
	}
}

package ttlstore

import (
	"hash/maphash"
	"sync"
	"time"

	"github.com/smart-campus-api/internal/pkg/clock"
)

const shardCount = 32

// Entry is a stored value with its issue and expiry timestamps.
type Entry[V any] struct {
	Value     V
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (e Entry[V]) live(now time.Time) bool { return now.Before(e.ExpiresAt) }

type shard[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]
}

// Store is a concurrency-safe key/value map whose entries expire.
// Keys are spread over independently locked shards, so operations on
// different keys rarely contend. Expired entries are invisible to readers
// and are evicted lazily on access or by Sweep.
type Store[V any] struct {
	clock  clock.Clock
	seed   maphash.Seed
	shards [shardCount]*shard[V]
}

// New creates an empty Store reading time from c.
func New[V any](c clock.Clock) *Store[V] {
	if c == nil {
		c = clock.Real()
	}
	s := &Store[V]{clock: c, seed: maphash.MakeSeed()}
	for i := range s.shards {
		s.shards[i] = &shard[V]{entries: make(map[string]Entry[V])}
	}
	return s
}

func (s *Store[V]) shardFor(key string) *shard[V] {
	return s.shards[maphash.String(s.seed, key)%shardCount]
}

// Put stores value under key for ttl, replacing any previous entry.
func (s *Store[V]) Put(key string, value V, ttl time.Duration) Entry[V] {
	sh := s.shardFor(key)
	now := s.clock.Now()
	e := Entry[V]{Value: value, IssuedAt: now, ExpiresAt: now.Add(ttl)}
	sh.mu.Lock()
	sh.entries[key] = e
	sh.mu.Unlock()
	return e
}

// PutIfAbsent stores value under key only when no live entry exists.
// It returns the live entry and false when one was already present,
// or the new entry and true.
func (s *Store[V]) PutIfAbsent(key string, value V, ttl time.Duration) (Entry[V], bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	now := s.clock.Now()
	if e, ok := sh.entries[key]; ok && e.live(now) {
		return e, false
	}
	e := Entry[V]{Value: value, IssuedAt: now, ExpiresAt: now.Add(ttl)}
	sh.entries[key] = e
	return e, true
}

// Get returns the value for key if it exists and has not expired.
func (s *Store[V]) Get(key string) (V, bool) {
	e, ok := s.Lookup(key)
	return e.Value, ok
}

// Lookup is Get with the entry timestamps.
func (s *Store[V]) Lookup(key string) (Entry[V], bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	if !e.live(s.clock.Now()) {
		delete(sh.entries, key)
		return Entry[V]{}, false
	}
	return e, true
}

// Take atomically returns and removes the live value for key.
func (s *Store[V]) Take(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	delete(sh.entries, key)
	if !e.live(s.clock.Now()) {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Remove deletes key. Removing a missing key is a no-op.
func (s *Store[V]) Remove(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	delete(sh.entries, key)
	sh.mu.Unlock()
}

// Sweep evicts every expired entry and returns how many were removed.
// Shards are locked one at a time.
func (s *Store[V]) Sweep() int {
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		now := s.clock.Now()
		for k, e := range sh.entries {
			if !e.live(now) {
				delete(sh.entries, k)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// Package inflight provides a single-flight coordinator guaranteeing
// at-most-one concurrent upstream fetch per cache key. Release is tied to
// a defer in the leader's call stack, so cancellation or panic still
// clears the entry. golang.org/x/sync/singleflight's all-or-nothing Do
// does not fit here because followers re-read the cache on wake instead
// of receiving the leader's result directly (see Permit.Role).
package inflight

import (
	"sync"

	"github.com/ditsuke/cachegate/pkg/cachekey"
)

// Role distinguishes the permit returned by Acquire.
type Role int

const (
	// Leader owns the entry and is responsible for fetching upstream and
	// calling Release when done.
	Leader Role = iota
	// Follower observes an existing fetch in progress; it must call Wait
	// and then re-check the cache.
	Follower
)

func (r Role) String() string {
	if r == Leader {
		return "leader"
	}
	return "follower"
}

// entry is the shared state for one in-flight key. done is closed by the
// leader's Release, broadcasting completion to any waiting followers.
type entry struct {
	done chan struct{}
}

// Coordinator maps cache keys to in-flight entries under a single mutex.
type Coordinator struct {
	mu      sync.Mutex
	entries map[cachekey.Key]*entry
}

// New builds an empty coordinator.
func New() *Coordinator {
	return &Coordinator{entries: make(map[cachekey.Key]*entry)}
}

// Permit is returned by Acquire. Leaders must call Release exactly once
// (typically via defer) when their fetch completes, regardless of outcome.
// Followers call Wait to block until the leader releases.
type Permit struct {
	Role Role

	key   cachekey.Key
	entry *entry
	coord *Coordinator
}

// Acquire returns a Leader permit if no fetch for key is in flight,
// otherwise a Follower permit referencing the existing fetch.
func (c *Coordinator) Acquire(key cachekey.Key) Permit {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return Permit{Role: Follower, key: key, entry: e, coord: c}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	return Permit{Role: Leader, key: key, entry: e, coord: c}
}

// Release removes the leader's entry (if it is still the current one for
// this key — stale releases are no-ops) and broadcasts completion to any
// waiting followers. Safe to call multiple times; only the first call has
// an effect. Followers must not call Release.
func (p *Permit) Release() {
	if p.Role != Leader || p.entry == nil {
		return
	}

	p.coord.mu.Lock()
	if p.coord.entries[p.key] == p.entry {
		delete(p.coord.entries, p.key)
	}
	p.coord.mu.Unlock()

	select {
	case <-p.entry.done:
		// already closed by a previous Release call
	default:
		close(p.entry.done)
	}
	p.entry = nil
}

// Wait blocks until the leader holding this entry releases it. Only
// meaningful for Follower permits.
func (p *Permit) Wait() {
	if p.entry == nil {
		return
	}
	<-p.entry.done
}

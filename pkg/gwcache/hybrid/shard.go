// Package hybrid implements a sharded, S3-FIFO-evicted cache backend with
// an in-memory tier fronting an optional on-disk tier.
//
// The eviction scheme uses two FIFO queues (small/probationary and
// main/protected) plus a bounded ghost set of recently-evicted keys:
// eviction from the small queue promotes accessed entries to main and
// discards the rest to the ghost set, and a ghost hit on insert admits
// straight to main. The key space is partitioned across N shards, each an
// independent S3-FIFO instance with its own lock and byte cap.
package hybrid

import (
	"container/list"
	"sync"

	"github.com/ditsuke/cachegate/internal/logger"
	"github.com/ditsuke/cachegate/pkg/cachekey"
)

type shardEntry struct {
	entry cachekey.Entry
	size  int64
	freq  uint8 // saturating counter, max 3
	elem  *list.Element
	inM   bool
}

// shard is one independently-locked S3-FIFO instance, holding a fraction
// of the overall memory capacity.
type shard struct {
	mu sync.Mutex

	capacityBytes int64 // this shard's share of max_memory, enforced on every put
	sTarget       int   // item-count target for the small queue
	mTarget       int   // item-count target for the main queue
	ghostCap      int

	residentBytes int64
	entries       map[cachekey.Key]*shardEntry
	sQueue        *list.List // Value = cachekey.Key
	mQueue        *list.List

	ghostBuf   []cachekey.Key
	ghostSet   map[cachekey.Key]struct{}
	ghostHead  int
	ghostCount int

	inserts   int64
	evictions int64
}

// newShard builds one S3-FIFO shard. itemCapacity bounds the small/main
// queue split per the canonical sizing scheme (sTarget = max(1,
// capacity/10), mTarget = capacity - sTarget, ghostCap = max(4, 2*sTarget));
// capacityBytes is the hard byte ceiling enforced independently on every
// put.
func newShard(capacityBytes int64, itemCapacity int) *shard {
	if itemCapacity < 2 {
		itemCapacity = 2
	}
	sTarget := itemCapacity / 10
	if sTarget < 1 {
		sTarget = 1
	}
	mTarget := itemCapacity - sTarget
	ghostCap := 2 * sTarget
	if ghostCap < 4 {
		ghostCap = 4
	}
	return &shard{
		capacityBytes: capacityBytes,
		sTarget:       sTarget,
		mTarget:       mTarget,
		ghostCap:      ghostCap,
		entries:       make(map[cachekey.Key]*shardEntry),
		sQueue:        list.New(),
		mQueue:        list.New(),
		ghostBuf:      make([]cachekey.Key, ghostCap),
		ghostSet:      make(map[cachekey.Key]struct{}, ghostCap),
	}
}

func (s *shard) get(key cachekey.Key) (cachekey.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return cachekey.Entry{}, false
	}
	if e.freq < 3 {
		e.freq++
	}
	return e.entry, true
}

// put inserts or re-warms key, admitting straight to the main queue if the
// key is in the ghost set (a recent eviction), otherwise to the small
// (probationary) queue. Oversized entries relative to the whole shard
// capacity are rejected.
func (s *shard) put(key cachekey.Key, entry cachekey.Entry) {
	size := entry.Size()
	if s.capacityBytes > 0 && size > s.capacityBytes {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.residentBytes += size - e.size
		e.entry = entry
		e.size = size
		s.evictToFit()
		return
	}

	inM := s.ghostContains(key)
	var elem *list.Element
	if inM {
		elem = s.mQueue.PushBack(key)
	} else {
		elem = s.sQueue.PushBack(key)
	}
	s.entries[key] = &shardEntry{entry: entry, size: size, elem: elem, inM: inM}
	s.residentBytes += size
	s.inserts++

	s.evictToFit()
}

func (s *shard) evictToFit() {
	if s.capacityBytes <= 0 {
		return
	}
	for s.residentBytes > s.capacityBytes && (s.sQueue.Len() > 0 || s.mQueue.Len() > 0) {
		s.evictOne()
	}
}

func (s *shard) evictOne() {
	if s.sQueue.Len() > 0 {
		s.evictFromS()
		return
	}
	s.evictFromM()
}

func (s *shard) evictFromS() {
	front := s.sQueue.Front()
	if front == nil {
		return
	}
	key := front.Value.(cachekey.Key)
	s.sQueue.Remove(front)

	e, ok := s.entries[key]
	if !ok {
		return
	}

	if e.freq > 0 {
		e.freq = 0
		e.inM = true
		e.elem = s.mQueue.PushBack(key)
		if s.mQueue.Len() > s.mTarget {
			s.evictFromM()
		}
		return
	}

	s.residentBytes -= e.size
	delete(s.entries, key)
	s.ghostAdd(key)
	s.evictions++
	logger.Debug("hybrid cache eviction from small queue", logger.Bucket(key.Bucket), logger.Path(key.Path))
}

func (s *shard) evictFromM() {
	front := s.mQueue.Front()
	if front == nil {
		return
	}
	key := front.Value.(cachekey.Key)
	s.mQueue.Remove(front)

	e, ok := s.entries[key]
	if !ok {
		return
	}
	s.residentBytes -= e.size
	delete(s.entries, key)
	s.evictions++
	logger.Debug("hybrid cache eviction from main queue", logger.Bucket(key.Bucket), logger.Path(key.Path))
}

func (s *shard) ghostContains(key cachekey.Key) bool {
	_, ok := s.ghostSet[key]
	return ok
}

func (s *shard) ghostAdd(key cachekey.Key) {
	if _, exists := s.ghostSet[key]; exists {
		return
	}
	if s.ghostCount == s.ghostCap {
		oldest := s.ghostBuf[s.ghostHead]
		delete(s.ghostSet, oldest)
		s.ghostHead = (s.ghostHead + 1) % s.ghostCap
		s.ghostCount--
	}
	writeIdx := (s.ghostHead + s.ghostCount) % s.ghostCap
	s.ghostBuf[writeIdx] = key
	s.ghostSet[key] = struct{}{}
	s.ghostCount++
}

func (s *shard) stats() (entries int, bytes int64, inserts int64, evictions int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), s.residentBytes, s.inserts, s.evictions
}

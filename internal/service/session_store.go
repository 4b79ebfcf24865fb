package service

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/ordering"
)

// SessionStats reports session store activity.
type SessionStats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`
	Size        int   `json:"size"`
	Capacity    int   `json:"capacity"`
}

// SessionStore keeps order-assembly machines by session ID. Entries expire
// after a period without access and the least recently used session is
// dropped when a shard is full. It distributes sessions across shards to
// reduce lock contention.
type SessionStore struct {
	shards    []*sessionShard
	shardMask uint32
	capacity  int
}

// NewSessionStore creates a store holding up to capacity sessions that
// expire after ttl of inactivity. numShards is rounded up to a power of 2.
func NewSessionStore(capacity int, ttl time.Duration, numShards int) *SessionStore {
	if numShards <= 0 {
		numShards = 16
	}
	n := 1
	for n < numShards {
		n *= 2
	}
	numShards = n

	perShard := capacity / numShards
	if perShard < 1 {
		perShard = 1
	}

	s := &SessionStore{
		shards:    make([]*sessionShard, numShards),
		shardMask: uint32(numShards - 1),
		capacity:  perShard * numShards,
	}
	for i := range s.shards {
		s.shards[i] = newSessionShard(perShard, ttl)
	}
	metrics.UpdateSessionMetrics(0, s.capacity)
	return s
}

func (s *SessionStore) shard(id string) *sessionShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()&s.shardMask]
}

// Get returns the session's machine and refreshes its expiry.
func (s *SessionStore) Get(id string) (*ordering.Machine, bool) {
	return s.shard(id).get(id)
}

// Put stores a machine under id.
func (s *SessionStore) Put(id string, m *ordering.Machine) {
	s.shard(id).put(id, m)
	s.publish()
}

// Delete removes a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	ok := s.shard(id).delete(id)
	if ok {
		s.publish()
	}
	return ok
}

// Len returns the number of live sessions, expired ones included until they
// are swept.
func (s *SessionStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		total += sh.len()
	}
	return total
}

// Sweep drops expired sessions from every shard.
func (s *SessionStore) Sweep() {
	for _, sh := range s.shards {
		sh.sweep(time.Now())
	}
	s.publish()
}

// Clear removes all sessions.
func (s *SessionStore) Clear() {
	for _, sh := range s.shards {
		sh.clear()
	}
	s.publish()
}

// Stop shuts down the background sweepers.
func (s *SessionStore) Stop() {
	for _, sh := range s.shards {
		sh.stop()
	}
}

// Stats returns counters aggregated over all shards.
func (s *SessionStore) Stats() SessionStats {
	var total SessionStats
	for _, sh := range s.shards {
		st := sh.stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
		total.Expirations += st.Expirations
		total.Size += st.Size
		total.Capacity += st.Capacity
	}
	return total
}

func (s *SessionStore) publish() {
	metrics.UpdateSessionMetrics(s.Len(), s.capacity)
}

// sessionShard is an LRU list of sessions with sliding expiry.
type sessionShard struct {
	mu          sync.Mutex
	capacity    int
	ttl         time.Duration
	items       map[string]*sessionEntry
	head        *sessionEntry
	tail        *sessionEntry
	stopCh      chan struct{}
	stopOnce    sync.Once
	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

type sessionEntry struct {
	id        string
	machine   *ordering.Machine
	expiresAt time.Time
	prev      *sessionEntry
	next      *sessionEntry
}

func newSessionShard(capacity int, ttl time.Duration) *sessionShard {
	sh := &sessionShard{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*sessionEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go sh.startSweeper()
	return sh
}

func (sh *sessionShard) get(id string) (*ordering.Machine, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.items[id]
	if !ok {
		atomic.AddInt64(&sh.misses, 1)
		metrics.RecordSessionOperation("get", "miss")
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		sh.removeEntry(entry)
		atomic.AddInt64(&sh.misses, 1)
		atomic.AddInt64(&sh.expirations, 1)
		metrics.RecordSessionOperation("get", "expired")
		return nil, false
	}

	entry.expiresAt = now.Add(sh.ttl)
	sh.moveToFront(entry)
	atomic.AddInt64(&sh.hits, 1)
	metrics.RecordSessionOperation("get", "hit")
	return entry.machine, true
}

func (sh *sessionShard) put(id string, m *ordering.Machine) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if entry, ok := sh.items[id]; ok {
		entry.machine = m
		entry.expiresAt = time.Now().Add(sh.ttl)
		sh.moveToFront(entry)
		metrics.RecordSessionOperation("put", "replaced")
		return
	}

	entry := &sessionEntry{
		id:        id,
		machine:   m,
		expiresAt: time.Now().Add(sh.ttl),
	}
	sh.items[id] = entry
	sh.addToFront(entry)

	if len(sh.items) > sh.capacity {
		sh.removeEntry(sh.tail)
		atomic.AddInt64(&sh.evictions, 1)
		metrics.RecordSessionOperation("evict", "capacity")
	}
	metrics.RecordSessionOperation("put", "success")
}

func (sh *sessionShard) delete(id string) bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.items[id]
	if !ok {
		metrics.RecordSessionOperation("delete", "miss")
		return false
	}
	sh.removeEntry(entry)
	metrics.RecordSessionOperation("delete", "success")
	return true
}

func (sh *sessionShard) len() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return len(sh.items)
}

func (sh *sessionShard) startSweeper() {
	interval := sh.ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case t := <-ticker.C:
			sh.sweep(t)
		case <-sh.stopCh:
			return
		}
	}
}

// sweep walks from the least recently used end, where expired sessions
// collect, and stops at the first live one.
func (sh *sessionShard) sweep(now time.Time) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for sh.tail != nil && now.After(sh.tail.expiresAt) {
		sh.removeEntry(sh.tail)
		atomic.AddInt64(&sh.expirations, 1)
		metrics.RecordSessionOperation("sweep", "expired")
	}
}

func (sh *sessionShard) clear() {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.items = make(map[string]*sessionEntry, sh.capacity)
	sh.head = nil
	sh.tail = nil
	metrics.RecordSessionOperation("clear", "success")
}

func (sh *sessionShard) stop() {
	sh.stopOnce.Do(func() { close(sh.stopCh) })
}

func (sh *sessionShard) stats() SessionStats {
	sh.mu.Lock()
	size := len(sh.items)
	sh.mu.Unlock()

	return SessionStats{
		Hits:        atomic.LoadInt64(&sh.hits),
		Misses:      atomic.LoadInt64(&sh.misses),
		Evictions:   atomic.LoadInt64(&sh.evictions),
		Expirations: atomic.LoadInt64(&sh.expirations),
		Size:        size,
		Capacity:    sh.capacity,
	}
}

func (sh *sessionShard) removeEntry(entry *sessionEntry) {
	delete(sh.items, entry.id)
	sh.unlink(entry)
}

func (sh *sessionShard) moveToFront(entry *sessionEntry) {
	if entry == sh.head {
		return
	}
	sh.unlink(entry)
	sh.addToFront(entry)
}

func (sh *sessionShard) addToFront(entry *sessionEntry) {
	entry.prev = nil
	entry.next = sh.head
	if sh.head != nil {
		sh.head.prev = entry
	}
	sh.head = entry
	if sh.tail == nil {
		sh.tail = entry
	}
}

func (sh *sessionShard) unlink(entry *sessionEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		sh.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		sh.tail = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}

package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/metrics"
)

const (
	backendMemory    = "memory"
	defaultNumShards = 16
	cleanupInterval  = time.Minute
)

// StoreStats aggregates in-memory cart store counters.
type StoreStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// MemoryCartRepository keeps session carts in process memory.
// Entries expire after ttl without a write and the least recently used
// session is evicted once a shard is full. Sessions are spread across
// shards to reduce lock contention.
type MemoryCartRepository struct {
	shards    []*cartShard
	shardMask uint32
}

// NewMemoryCartRepository creates a store holding at most capacity carts.
// numShards is rounded up to a power of two.
func NewMemoryCartRepository(capacity int, ttl time.Duration, numShards int) *MemoryCartRepository {
	if numShards <= 0 {
		numShards = defaultNumShards
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

	shards := make([]*cartShard, numShards)
	for i := range shards {
		shards[i] = newCartShard(perShard, ttl)
	}

	return &MemoryCartRepository{
		shards:    shards,
		shardMask: uint32(numShards - 1),
	}
}

func (r *MemoryCartRepository) shard(sessionID string) *cartShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return r.shards[h.Sum32()&r.shardMask]
}

// Get returns the cart of sessionID or ErrCartNotFound.
func (r *MemoryCartRepository) Get(ctx context.Context, sessionID string) (model.CartState, error) {
	if err := ctx.Err(); err != nil {
		return model.CartState{}, err
	}
	state, ok := r.shard(sessionID).get(sessionID)
	if !ok {
		return model.CartState{}, ErrCartNotFound
	}
	return state, nil
}

// Save stores a copy of state for sessionID.
func (r *MemoryCartRepository) Save(ctx context.Context, sessionID string, state model.CartState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.shard(sessionID).set(sessionID, state.Clone())
	metrics.SetSessionsActive(r.Len())
	return nil
}

// Len returns the number of carts currently held.
func (r *MemoryCartRepository) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Stats returns counters aggregated over all shards.
func (r *MemoryCartRepository) Stats() StoreStats {
	var total StoreStats
	for _, s := range r.shards {
		st := s.stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
		total.Size += st.Size
		total.Capacity += st.Capacity
	}
	return total
}

// Stop terminates the background cleanup of every shard.
func (r *MemoryCartRepository) Stop() {
	for _, s := range r.shards {
		s.stop()
	}
}

// cartShard is an LRU list of carts with a per-entry expiry.
type cartShard struct {
	mu        sync.RWMutex
	capacity  int
	ttl       time.Duration
	items     map[string]*cartEntry
	head      *cartEntry
	tail      *cartEntry
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      int64
	misses    int64
	evictions int64
}

type cartEntry struct {
	key       string
	value     model.CartState
	expiresAt time.Time
	prev      *cartEntry
	next      *cartEntry
}

func newCartShard(capacity int, ttl time.Duration) *cartShard {
	s := &cartShard{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*cartEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

func (s *cartShard) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *cartShard) stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreStats{
		Hits:      atomic.LoadInt64(&s.hits),
		Misses:    atomic.LoadInt64(&s.misses),
		Evictions: atomic.LoadInt64(&s.evictions),
		Size:      len(s.items),
		Capacity:  s.capacity,
	}
}

func (s *cartShard) get(key string) (model.CartState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		atomic.AddInt64(&s.misses, 1)
		metrics.RecordSessionStoreOperation(backendMemory, "get", "miss")
		return model.CartState{}, false
	}

	if time.Now().After(entry.expiresAt) {
		s.removeEntry(entry)
		atomic.AddInt64(&s.misses, 1)
		metrics.RecordSessionStoreOperation(backendMemory, "get", "expired")
		return model.CartState{}, false
	}

	s.moveToFront(entry)
	atomic.AddInt64(&s.hits, 1)
	metrics.RecordSessionStoreOperation(backendMemory, "get", "hit")
	return entry.value.Clone(), true
}

func (s *cartShard) set(key string, value model.CartState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(s.ttl)
	if entry, ok := s.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		metrics.RecordSessionStoreOperation(backendMemory, "save", "success")
		return
	}

	entry := &cartEntry{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	}
	s.items[key] = entry
	s.addToFront(entry)

	if len(s.items) > s.capacity {
		s.removeTail()
		atomic.AddInt64(&s.evictions, 1)
		metrics.RecordSessionStoreOperation(backendMemory, "evict", "capacity")
	}
	metrics.RecordSessionStoreOperation(backendMemory, "save", "success")
}

func (s *cartShard) startCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes all expired entries.
func (s *cartShard) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, entry := range s.items {
		if now.After(entry.expiresAt) {
			s.removeEntry(entry)
		}
	}
}

func (s *cartShard) removeEntry(entry *cartEntry) {
	delete(s.items, entry.key)
	s.unlink(entry)
}

func (s *cartShard) moveToFront(entry *cartEntry) {
	if entry == s.head {
		return
	}
	s.unlink(entry)
	s.addToFront(entry)
}

func (s *cartShard) addToFront(entry *cartEntry) {
	entry.prev = nil
	entry.next = s.head
	if s.head != nil {
		s.head.prev = entry
	}
	s.head = entry
	if s.tail == nil {
		s.tail = entry
	}
}

// unlink removes an entry from the list without touching the map.
func (s *cartShard) unlink(entry *cartEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		s.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}
}

// removeTail evicts the least recently used entry.
func (s *cartShard) removeTail() {
	if s.tail == nil {
		return
	}
	s.removeEntry(s.tail)
}

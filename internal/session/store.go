package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/stampcard/internal/usecase"
)

// Store keeps interactive stamp batches in process memory. Batches are
// ephemeral by contract: a restart or an expired TTL discards them with no
// persisted effect, which is exactly the cancel semantics of the tap flow.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	batch   usecase.PendingBatch
	touched time.Time
}

// NewStore creates a session store. A non-positive ttl keeps sessions until
// they are committed or canceled.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open registers a batch and returns its session ID.
func (s *Store) Open(batch usecase.PendingBatch) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	id := uuid.NewString()
	s.entries[id] = entry{batch: batch, touched: s.now()}
	return id
}

// Get returns the batch for a session, refreshing its TTL.
func (s *Store) Get(id string) (usecase.PendingBatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		return usecase.PendingBatch{}, false
	}
	e.touched = s.now()
	s.entries[id] = e
	return e.batch, true
}

// Put stores the updated batch for an existing session.
func (s *Store) Put(id string, batch usecase.PendingBatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		delete(s.entries, id)
		return false
	}
	s.entries[id] = entry{batch: batch, touched: s.now()}
	return true
}

// Delete discards a session. Deleting an unknown session is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports live sessions, sweeping expired ones first.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.touched) > s.ttl
}

func (s *Store) sweepLocked() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}

package report

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store is the ordered, client-held collection of report records: the single
// source of UI truth. It holds records mirrored from the backend plus zero or
// more optimistic entries awaiting confirmation. Records are kept newest
// first by SortKey, with in-place rewrites so a record never changes position
// (or flickers out of existence) when its identity is promoted.
//
// The store is only ever mutated through the Controller and the delete
// handler; other components read snapshots.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore creates an empty report store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of the current records, newest first.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given identity.
func (s *Store) Get(id ID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID.Equal(id) {
			return r, true
		}
	}
	return Record{}, false
}

// indexOf returns the position of id, or -1. Caller holds the lock.
func (s *Store) indexOf(id ID) int {
	for i, r := range s.records {
		if r.ID.Equal(id) {
			return i
		}
	}
	return -1
}

// InsertHead places a new record at the head of the list. It refuses a
// record whose identity is already present: exactly one record may exist per
// logical report.
func (s *Store) InsertHead(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(rec.ID) >= 0 {
		return fmt.Errorf("duplicate report record %s", rec.ID)
	}
	if rec.SortKey.IsZero() {
		rec.SortKey = time.Now()
	}
	s.records = append([]Record{rec}, s.records...)
	return nil
}

// Promote rewrites the record identified by provisional in place: it takes
// the backend-assigned durable identity, becomes Ready and Confirmed, and
// gains the backend file pointer. The record keeps its list position so the
// user never sees it disappear and reappear. Promotion to an identity that
// already exists elsewhere in the store is refused (no duplicates after
// identity promotion).
func (s *Store) Promote(provisional, durable ID, filePath, sizeLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(provisional)
	if idx < 0 {
		return fmt.Errorf("no record %s to promote", provisional)
	}
	if other := s.indexOf(durable); other >= 0 && other != idx {
		// The backend row is already mirrored; drop the optimistic twin.
		s.records = append(s.records[:idx], s.records[idx+1:]...)
		return nil
	}
	rec := s.records[idx]
	rec.ID = durable
	rec.Status = StatusReady
	rec.Origin = OriginConfirmed
	rec.FilePath = filePath
	if sizeLabel != "" {
		rec.SizeLabel = sizeLabel
	}
	rec.PendingVerification = false
	s.records[idx] = rec
	return nil
}

// Remove deletes the record with the given identity and returns it together
// with the position it held, so a failed backend delete can restore it.
func (s *Store) Remove(id ID) (Record, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Record{}, -1, false
	}
	rec := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return rec, idx, true
}

// RestoreAt reinserts a previously removed record at its original position.
func (s *Store) RestoreAt(rec Record, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.records) {
		idx = len(s.records)
	}
	s.records = append(s.records[:idx], append([]Record{rec}, s.records[idx:]...)...)
}

// MarkPendingVerification flags or clears the partial-success state on a
// record without touching anything else.
func (s *Store) MarkPendingVerification(id ID, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.records[idx].PendingVerification = pending
	}
}

// SetLocalArtifact records the path of the locally assembled document.
func (s *Store) SetLocalArtifact(id ID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		s.records[idx].LocalArtifact = path
	}
}

// Merge replaces the confirmed portion of the store with a fresh backend
// listing while preserving any optimistic records still awaiting their
// create acknowledgment. Optimistic entries stay ahead of same-aged
// confirmed rows so in-flight generations remain visible at the top.
func (s *Store) Merge(listing []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var optimistic []Record
	local := make(map[string]Record, len(s.records))
	for _, r := range s.records {
		if r.Origin == OriginOptimistic {
			optimistic = append(optimistic, r)
			continue
		}
		local[r.ID.String()] = r
	}

	merged := make([]Record, 0, len(optimistic)+len(listing))
	merged = append(merged, optimistic...)
	for _, r := range listing {
		// Keep client-side fields the listing cannot know about.
		if prev, ok := local[r.ID.String()]; ok {
			r.LocalArtifact = prev.LocalArtifact
			r.PendingVerification = prev.PendingVerification
		}
		r.Origin = OriginConfirmed
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SortKey.After(merged[j].SortKey)
	})
	s.records = merged
}

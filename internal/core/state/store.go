package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"geomaqui-os/internal/core/domain"
)

// SnapshotKey is the storage key of the live application state
const SnapshotKey = "click_geomaqui_v28"

// ErrNotFound must be returned by a Persister when no blob exists yet
var ErrNotFound = errors.New("no snapshot stored")

// Persister stores and retrieves the serialized application state
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store holds the in-memory application state and keeps it in sync
// with a Persister. Every mutation goes through Update, which writes
// the whole snapshot back before the in-memory state is swapped; a
// failed write leaves the state untouched.
type Store struct {
	mu        sync.RWMutex
	state     domain.AppState
	persister Persister
}

// Open loads the stored snapshot into a new Store. A missing or
// unparseable blob falls back to the seed state.
func Open(ctx context.Context, p Persister) (*Store, error) {
	s := &Store{persister: p}

	data, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Println("⚠️ No stored snapshot, seeding initial state")
		return s.reset(ctx)
	case err != nil:
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var st domain.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("⚠️ Stored snapshot is unreadable, seeding initial state: %v", err)
		return s.reset(ctx)
	}

	repairState(&st)
	s.state = st
	log.Printf("✅ State loaded [%d users, %d schedules]", len(st.Users), len(st.Schedules))
	return s, nil
}

// reset replaces the state with the seed and persists it
func (s *Store) reset(ctx context.Context) (*Store, error) {
	seed, err := SeedState()
	if err != nil {
		return nil, fmt.Errorf("failed to build seed state: %w", err)
	}

	data, err := json.Marshal(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize seed state: %w", err)
	}
	if err := s.persister.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to persist seed state: %w", err)
	}

	s.state = seed
	return s, nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() domain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies fn to a copy of the state, persists the whole result
// and only then makes it visible. When fn or the write fails, the
// in-memory state is left exactly as it was.
func (s *Store) Update(ctx context.Context, fn func(*domain.AppState) error) (domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return domain.AppState{}, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return domain.AppState{}, fmt.Errorf("failed to serialize state: %w", err)
	}
	if err := s.persister.Save(ctx, data); err != nil {
		return domain.AppState{}, fmt.Errorf("failed to persist state: %w", err)
	}

	s.state = next
	return next.Clone(), nil
}

// Export returns the current state serialized as JSON
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.state)
}

// repairState fixes inconsistencies in a loaded snapshot so the
// invariants hold regardless of what was stored
func repairState(st *domain.AppState) {
	// Dangling signed-in user
	if st.CurrentUserID != "" && st.UserByID(st.CurrentUserID) == nil {
		log.Printf("⚠️ Dropping dangling current user %q", st.CurrentUserID)
		st.CurrentUserID = ""
	}

	// Unknown statuses would break every lifecycle check
	for i := range st.Schedules {
		if !st.Schedules[i].Status.IsValid() {
			log.Printf("⚠️ Schedule %s has unknown status %q, marking PENDING",
				st.Schedules[i].ID, st.Schedules[i].Status)
			st.Schedules[i].Status = domain.StatusPending
		}
		if st.Schedules[i].Transfers == nil {
			st.Schedules[i].Transfers = []domain.TransferHistory{}
		}
	}
}

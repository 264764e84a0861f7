package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// StorageKey is the single key the progress record is stored under.
const StorageKey = "music-lab-progress"

// Store loads and saves the progress record through a Backend. It never
// returns errors: every storage failure degrades to defaults and is
// reported through Status.
type Store struct {
	backend Backend
	key     string
}

// NewStore creates a Store over backend. A nil backend behaves like an
// environment without storage: loads return defaults and saves are dropped.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, key: StorageKey}
}

// Load returns the stored record merged over the defaults, or the defaults
// when storage is empty, unavailable, or holds an unreadable value.
func (s *Store) Load(ctx context.Context) (UserSessionData, Status) {
	if s.backend == nil {
		return Default(), Status{Kind: StatusUnavailable, Err: ErrUnavailable}
	}

	raw, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return Default(), Status{Kind: StatusEmpty}
	case errors.Is(err, ErrUnavailable):
		return Default(), Status{Kind: StatusUnavailable, Err: err}
	case err != nil:
		return Default(), Status{Kind: StatusUnavailable, Err: fmt.Errorf("read %s: %w", s.key, err)}
	}

	if len(raw) == 0 {
		return Default(), Status{Kind: StatusEmpty}
	}

	data, err := decodeRecord(raw)
	if err != nil {
		return Default(), Status{Kind: StatusCorrupt, Err: err}
	}
	return data, Status{Kind: StatusOK}
}

// Save overwrites the stored record. Failures are not retried.
func (s *Store) Save(ctx context.Context, data UserSessionData) Status {
	if s.backend == nil {
		return Status{Kind: StatusUnavailable, Err: ErrUnavailable}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Status{Kind: StatusWriteFailed, Err: fmt.Errorf("encode record: %w", err)}
	}

	if err := s.backend.Put(ctx, s.key, raw); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return Status{Kind: StatusUnavailable, Err: err}
		}
		return Status{Kind: StatusWriteFailed, Err: err}
	}
	return Status{Kind: StatusOK}
}

// Clear removes the stored record so the next Load returns defaults.
func (s *Store) Clear(ctx context.Context) Status {
	if s.backend == nil {
		return Status{Kind: StatusUnavailable, Err: ErrUnavailable}
	}
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return Status{Kind: StatusWriteFailed, Err: err}
	}
	return Status{Kind: StatusOK}
}

// Package store provides the optimistic transaction executor used for every
// room and wallet mutation. All coordination is per-key compare-and-swap
// through a ports.RecordStore; there is no cross-key atomicity.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ludocash/internal/ports"
)

// DefaultMaxAttempts bounds the retry loop on version conflicts.
const DefaultMaxAttempts = 5

// ErrAborted is returned when a transaction lost every retry round to
// concurrent writers. The caller is expected to resubmit; this is a normal
// outcome under contention, not a fault.
var ErrAborted = errors.New("transaction aborted: too many conflicting writers")

// Store executes bounded-retry CAS transactions over a record store.
type Store struct {
	records     ports.RecordStore
	maxAttempts int
}

// New creates a Store with the default retry budget.
func New(records ports.RecordStore) *Store {
	return &Store{records: records, maxAttempts: DefaultMaxAttempts}
}

// NewWithAttempts creates a Store with a custom retry budget.
func NewWithAttempts(records ports.RecordStore, maxAttempts int) *Store {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Store{records: records, maxAttempts: maxAttempts}
}

// Transact reads the record, applies the pure transform and writes the
// result back only if the record is unchanged since the read. On conflict it
// re-reads and retries up to the attempt budget, then returns ErrAborted.
// A transform error aborts without committing and is returned verbatim.
func Transact[T any](ctx context.Context, s *Store, collection, key string, transform func(T) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		raw, version, err := s.records.Get(ctx, collection, key)
		if err != nil {
			return zero, err
		}

		var snapshot T
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return zero, fmt.Errorf("decode %s/%s: %w", collection, key, err)
		}

		next, err := transform(snapshot)
		if err != nil {
			return zero, err
		}

		out, err := json.Marshal(next)
		if err != nil {
			return zero, fmt.Errorf("encode %s/%s: %w", collection, key, err)
		}

		if _, err := s.records.Put(ctx, collection, key, out, version); err != nil {
			if errors.Is(err, ports.ErrVersionMismatch) {
				continue
			}
			return zero, err
		}
		return next, nil
	}
	return zero, ErrAborted
}

// TransactOrInit behaves like Transact but starts the transform from init
// when the record does not exist yet, creating it on commit.
func TransactOrInit[T any](ctx context.Context, s *Store, collection, key string, init T, transform func(T) (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		snapshot := init
		version := ports.VersionAbsent

		raw, current, err := s.records.Get(ctx, collection, key)
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, &snapshot); err != nil {
				return zero, fmt.Errorf("decode %s/%s: %w", collection, key, err)
			}
			version = current
		case errors.Is(err, ports.ErrNotFound):
			// Keep init snapshot; conditional create.
		default:
			return zero, err
		}

		next, err := transform(snapshot)
		if err != nil {
			return zero, err
		}

		out, err := json.Marshal(next)
		if err != nil {
			return zero, fmt.Errorf("encode %s/%s: %w", collection, key, err)
		}

		if _, err := s.records.Put(ctx, collection, key, out, version); err != nil {
			if errors.Is(err, ports.ErrVersionMismatch) {
				continue
			}
			return zero, err
		}
		return next, nil
	}
	return zero, ErrAborted
}

// Create writes a new record, failing with ports.ErrVersionMismatch if the
// key already exists.
func Create[T any](ctx context.Context, s *Store, collection, key string, value T) error {
	out, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	_, err = s.records.Put(ctx, collection, key, out, ports.VersionAbsent)
	return err
}

// Get reads and decodes a record snapshot without transacting on it.
func Get[T any](ctx context.Context, s *Store, collection, key string) (T, error) {
	var value T
	raw, _, err := s.records.Get(ctx, collection, key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return value, nil
}

// Delete removes a record unconditionally.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	return s.records.Delete(ctx, collection, key, "")
}

// List decodes up to limit records from a collection.
func List[T any](ctx context.Context, s *Store, collection string, limit int, cursor string) ([]T, string, error) {
	raws, next, err := s.records.List(ctx, collection, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, "", fmt.Errorf("decode %s list entry: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, next, nil
}

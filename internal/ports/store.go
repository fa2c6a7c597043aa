package ports

import (
	"context"
	"errors"
)

// ErrNotFound indicates the record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrVersionMismatch indicates a conditional write lost to a concurrent
// writer and the caller should re-read and retry.
var ErrVersionMismatch = errors.New("record version mismatch")

// VersionAbsent is the version token meaning "write only if the record does
// not exist yet".
const VersionAbsent = "*"

// RecordStore is keyed, versioned record storage. Every Put is conditional
// on the version observed by the preceding Get, which gives optimistic
// compare-and-swap semantics per key and no ordering across keys.
type RecordStore interface {
	// Get returns the record value and its current version.
	Get(ctx context.Context, collection, key string) (value []byte, version string, err error)

	// Put writes the record if its version still matches. Pass VersionAbsent
	// to require that the record does not exist. Returns the new version, or
	// ErrVersionMismatch when a concurrent writer got there first.
	Put(ctx context.Context, collection, key string, value []byte, version string) (string, error)

	// Delete removes the record if its version still matches.
	Delete(ctx context.Context, collection, key, version string) error

	// List pages through record values in a collection.
	List(ctx context.Context, collection string, limit int, cursor string) (values [][]byte, nextCursor string, err error)
}

package nakama

import (
	"context"
	"errors"
	"fmt"

	"ludocash/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StorageAPI is the slice of Nakama's module API the storage adapter uses.
// Narrowed so tests can fake it without the full NakamaModule surface.
type StorageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
}

// NakamaStorageAdapter implements ports.RecordStore on Nakama's versioned
// storage engine. All records are system-owned; clients reach them only
// through RPCs.
type NakamaStorageAdapter struct {
	nk StorageAPI
}

// NewNakamaStorageAdapter creates a new storage adapter.
func NewNakamaStorageAdapter(nk StorageAPI) *NakamaStorageAdapter {
	return &NakamaStorageAdapter{nk: nk}
}

// Get reads a single system-owned record.
func (a *NakamaStorageAdapter) Get(ctx context.Context, collection, key string) ([]byte, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collection, Key: key, UserID: ""},
	})
	if err != nil {
		return nil, "", fmt.Errorf("storage read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return nil, "", ports.ErrNotFound
	}
	return []byte(objects[0].Value), objects[0].Version, nil
}

// Put writes conditionally on version. Nakama rejects a stale version with
// ErrStorageRejectedVersion, which maps to ports.ErrVersionMismatch.
func (a *NakamaStorageAdapter) Put(ctx context.Context, collection, key string, value []byte, version string) (string, error) {
	acks, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      collection,
			Key:             key,
			UserID:          "",
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return "", ports.ErrVersionMismatch
		}
		return "", fmt.Errorf("storage write %s/%s: %w", collection, key, err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("storage write %s/%s: no ack", collection, key)
	}
	return acks[0].Version, nil
}

// Delete removes the record if the version still matches.
func (a *NakamaStorageAdapter) Delete(ctx context.Context, collection, key, version string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{
		{Collection: collection, Key: key, UserID: "", Version: version},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return ports.ErrVersionMismatch
		}
		return fmt.Errorf("storage delete %s/%s: %w", collection, key, err)
	}
	return nil
}

// List pages through system-owned record values in a collection.
func (a *NakamaStorageAdapter) List(ctx context.Context, collection string, limit int, cursor string) ([][]byte, string, error) {
	objects, nextCursor, err := a.nk.StorageList(ctx, "", "", collection, limit, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("storage list %s: %w", collection, err)
	}
	values := make([][]byte, 0, len(objects))
	for _, obj := range objects {
		values = append(values, []byte(obj.Value))
	}
	return values, nextCursor, nil
}

var _ ports.RecordStore = (*NakamaStorageAdapter)(nil)

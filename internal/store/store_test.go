package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"ludocash/internal/ports"
)

type memRecord struct {
	value   []byte
	version int
}

// memStore is an in-memory ports.RecordStore with real version checking, so
// conflict behavior matches the storage engine.
type memStore struct {
	mu      sync.Mutex
	records map[string]memRecord
	nextVer int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]memRecord{}, nextVer: 1}
}

func recKey(collection, key string) string { return collection + "/" + key }

func (m *memStore) Get(ctx context.Context, collection, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recKey(collection, key)]
	if !ok {
		return nil, "", ports.ErrNotFound
	}
	return rec.value, strconv.Itoa(rec.version), nil
}

func (m *memStore) Put(ctx context.Context, collection, key string, value []byte, version string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recKey(collection, key)
	rec, exists := m.records[k]
	if version == ports.VersionAbsent {
		if exists {
			return "", ports.ErrVersionMismatch
		}
	} else if !exists || strconv.Itoa(rec.version) != version {
		return "", ports.ErrVersionMismatch
	}
	m.nextVer++
	m.records[k] = memRecord{value: append([]byte(nil), value...), version: m.nextVer}
	return strconv.Itoa(m.nextVer), nil
}

func (m *memStore) Delete(ctx context.Context, collection, key, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, recKey(collection, key))
	return nil
}

func (m *memStore) List(ctx context.Context, collection string, limit int, cursor string) ([][]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]byte
	prefix := collection + "/"
	for k, rec := range m.records {
		if len(out) == limit {
			break
		}
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, rec.value)
		}
	}
	return out, "", nil
}

type counter struct {
	N int `json:"n"`
}

func TestTransactAppliesTransform(t *testing.T) {
	mem := newMemStore()
	s := New(mem)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "c1", counter{N: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := Transact(ctx, s, "counters", "c1", func(c counter) (counter, error) {
		c.N += 10
		return c, nil
	})
	if err != nil {
		t.Fatalf("transact: %v", err)
	}
	if got.N != 11 {
		t.Fatalf("expected 11, got %d", got.N)
	}

	stored, err := Get[counter](ctx, s, "counters", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.N != 11 {
		t.Fatalf("stored value not committed, got %d", stored.N)
	}
}

func TestTransactRetriesOnConflict(t *testing.T) {
	mem := newMemStore()
	s := New(mem)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "c1", counter{N: 0}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The first attempt loses to a concurrent writer injected between the
	// read and the conditional write; the retry must see the new snapshot.
	interfered := false
	got, err := Transact(ctx, s, "counters", "c1", func(c counter) (counter, error) {
		if !interfered {
			interfered = true
			_, version, _ := mem.Get(ctx, "counters", "c1")
			if _, err := mem.Put(ctx, "counters", "c1", []byte(`{"n":100}`), version); err != nil {
				t.Fatalf("interfering put: %v", err)
			}
		}
		c.N++
		return c, nil
	})
	if err != nil {
		t.Fatalf("transact: %v", err)
	}
	if got.N != 101 {
		t.Fatalf("expected transform over fresh snapshot (101), got %d", got.N)
	}
}

func TestTransactAbortsAfterRetryBudget(t *testing.T) {
	mem := newMemStore()
	s := NewWithAttempts(mem, 3)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "c1", counter{N: 0}); err != nil {
		t.Fatalf("create: %v", err)
	}

	attempts := 0
	_, err := Transact(ctx, s, "counters", "c1", func(c counter) (counter, error) {
		attempts++
		_, version, _ := mem.Get(ctx, "counters", "c1")
		if _, err := mem.Put(ctx, "counters", "c1", []byte(`{"n":-1}`), version); err != nil {
			t.Fatalf("interfering put: %v", err)
		}
		c.N++
		return c, nil
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestTransactTransformErrorDoesNotCommit(t *testing.T) {
	mem := newMemStore()
	s := New(mem)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "c1", counter{N: 7}); err != nil {
		t.Fatalf("create: %v", err)
	}

	wantErr := fmt.Errorf("business rule violated")
	_, err := Transact(ctx, s, "counters", "c1", func(c counter) (counter, error) {
		c.N = 999
		return c, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transform error, got %v", err)
	}

	stored, err := Get[counter](ctx, s, "counters", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.N != 7 {
		t.Fatalf("aborted transform must not commit, got %d", stored.N)
	}
}

func TestTransactMissingRecord(t *testing.T) {
	mem := newMemStore()
	s := New(mem)

	_, err := Transact(context.Background(), s, "counters", "missing", func(c counter) (counter, error) {
		return c, nil
	})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactOrInitCreatesRecord(t *testing.T) {
	mem := newMemStore()
	s := New(mem)
	ctx := context.Background()

	got, err := TransactOrInit(ctx, s, "counters", "fresh", counter{N: 5}, func(c counter) (counter, error) {
		c.N *= 2
		return c, nil
	})
	if err != nil {
		t.Fatalf("transact or init: %v", err)
	}
	if got.N != 10 {
		t.Fatalf("expected 10, got %d", got.N)
	}

	// Existing record: init must be ignored.
	got, err = TransactOrInit(ctx, s, "counters", "fresh", counter{N: 1000}, func(c counter) (counter, error) {
		c.N++
		return c, nil
	})
	if err != nil {
		t.Fatalf("transact or init existing: %v", err)
	}
	if got.N != 11 {
		t.Fatalf("expected 11, got %d", got.N)
	}
}

func TestCreateRejectsExistingKey(t *testing.T) {
	mem := newMemStore()
	s := New(mem)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "dup", counter{N: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := Create(ctx, s, "counters", "dup", counter{N: 2})
	if !errors.Is(err, ports.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestConcurrentTransactsAllApply(t *testing.T) {
	mem := newMemStore()
	s := NewWithAttempts(mem, 50)
	ctx := context.Background()

	if err := Create(ctx, s, "counters", "c1", counter{N: 0}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Transact(ctx, s, "counters", "c1", func(c counter) (counter, error) {
				c.N++
				return c, nil
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("writer %d: %v", i, err)
		}
	}
	stored, err := Get[counter](ctx, s, "counters", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.N != writers {
		t.Fatalf("lost increments: expected %d, got %d", writers, stored.N)
	}
}

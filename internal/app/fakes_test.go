package app

import (
	"context"
	"strconv"
	"sync"

	"ludocash/internal/config"
	"ludocash/internal/ports"
	"ludocash/internal/store"
)

type memRecord struct {
	value   []byte
	version int
}

// memStore is an in-memory ports.RecordStore with real version checks.
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

// fakeDirectory resolves every uid to a canned profile.
type fakeDirectory struct {
	profiles map[string]ports.Profile
}

func (d *fakeDirectory) Lookup(ctx context.Context, userID string) (ports.Profile, error) {
	if p, ok := d.profiles[userID]; ok {
		return p, nil
	}
	return ports.Profile{DisplayName: "Player " + userID}, nil
}

// stubRand replays a fixed sequence, cycling when exhausted.
type stubRand struct {
	vals []int
	i    int
}

func (r *stubRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)] % n
	r.i++
	return v
}

// fakeGateway returns deterministic order ids without any network calls.
type fakeGateway struct {
	orders  int
	lastReq struct {
		amountPaise int64
		currency    string
		receipt     string
	}
	err error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*ports.GatewayOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders++
	g.lastReq.amountPaise = amountPaise
	g.lastReq.currency = currency
	g.lastReq.receipt = receipt
	return &ports.GatewayOrder{
		OrderID:     "order_" + strconv.Itoa(g.orders),
		AmountPaise: amountPaise,
		Currency:    currency,
	}, nil
}

func testConfig() *config.GameConfig {
	cfg := config.Default()
	cfg.PlatformFeePercent = 5
	return cfg
}

func newTestStore() *store.Store {
	return store.New(newMemStore())
}

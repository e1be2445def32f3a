package cache

import (
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		PayloadCacheSizeMB: 8,
		PayloadTTL:         time.Minute,
		QueryCacheSize:     4,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPayloadCacheRoundTrip(t *testing.T) {
	m := newTestManager(t)

	key := PayloadKey("/data/bundle", "coords.bin")
	if _, ok := m.GetPayload(key); ok {
		t.Fatal("unexpected cache hit")
	}

	if err := m.SetPayload(key, []byte{1, 2, 3}); err != nil {
		t.Fatalf("SetPayload error: %v", err)
	}

	got, ok := m.GetPayload(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestQueryCacheEviction(t *testing.T) {
	m := newTestManager(t)

	for i := byte(0); i < 8; i++ {
		m.SetQuery(string('a'+rune(i)), []byte{i})
	}

	// Capacity 4: earliest entries must be gone.
	if _, ok := m.GetQuery("a"); ok {
		t.Fatal("oldest query entry should have been evicted")
	}
	if _, ok := m.GetQuery("h"); !ok {
		t.Fatal("newest query entry should be present")
	}
}

func TestPayloadKeyDistinct(t *testing.T) {
	a := PayloadKey("/x", "coords.bin")
	b := PayloadKey("/x", "colors.bin")
	if a == b {
		t.Fatal("keys for distinct files must differ")
	}
}

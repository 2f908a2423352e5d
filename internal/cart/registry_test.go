package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV map[string][]byte

func (m mapKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (m mapKV) Set(ctx context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func newTestRegistry(store mapKV) (*Registry, *time.Time) {
	logger, _ := test.NewNullLogger()
	r := NewRegistry(store, logger)

	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(mapKV{})

	a := r.Get(ctx, "a")
	b := r.Get(ctx, "b")
	a.AddToCart(ctx, ProductRef{ID: "P1", Price: decimal.NewFromInt(10)})

	assert.Equal(t, 1, a.TotalItems())
	assert.Equal(t, 0, b.TotalItems())
	assert.Same(t, a, r.Get(ctx, "a"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_UsesSessionKey(t *testing.T) {
	ctx := context.Background()
	store := mapKV{}
	r, _ := newTestRegistry(store)

	r.Get(ctx, "abc").AddToCart(ctx, ProductRef{ID: "P1", Price: decimal.NewFromInt(10)})

	_, ok := store["cart:abc"]
	assert.True(t, ok)
}

func TestRegistry_SweepDropsIdleStoresAndRehydrates(t *testing.T) {
	ctx := context.Background()
	store := mapKV{}
	r, now := newTestRegistry(store)

	idle := r.Get(ctx, "idle")
	idle.AddToCart(ctx, ProductRef{ID: "P1", Price: decimal.NewFromInt(10)})

	watched := r.Get(ctx, "watched")
	unsubscribe := watched.Subscribe(func(State) {})
	defer unsubscribe()

	*now = now.Add(2 * time.Hour)
	r.Get(ctx, "fresh")

	removed := r.Sweep(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, r.Len())

	// 保存済みの状態から読み直される
	again := r.Get(ctx, "idle")
	require.NotSame(t, idle, again)
	assert.Equal(t, 1, again.TotalItems())
}

func TestRegistry_SweepKeepsStoreJustHandedOut(t *testing.T) {
	ctx := context.Background()
	store := mapKV{}
	r, now := newTestRegistry(store)

	r.Get(ctx, "s").AddToCart(ctx, ProductRef{ID: "P1", Price: decimal.NewFromInt(10)})
	*now = now.Add(time.Hour)

	held := r.Get(ctx, "s")
	assert.Equal(t, 0, r.Sweep(30*time.Minute))

	again := r.Get(ctx, "s")
	require.Same(t, held, again)

	held.AddToCart(ctx, ProductRef{ID: "P2", Price: decimal.NewFromInt(20)})
	again.AddToCart(ctx, ProductRef{ID: "P3", Price: decimal.NewFromInt(30)})

	saved, ok := Decode(store[StorageKey("s")])
	require.True(t, ok)
	ids := make([]string, 0, len(saved.Items))
	for _, it := range saved.Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"P1", "P2", "P3"}, ids)
}

func TestRegistry_RunSweeperStopsOnCancel(t *testing.T) {
	r, _ := newTestRegistry(mapKV{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.RunSweeper(ctx, time.Millisecond, time.Hour) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

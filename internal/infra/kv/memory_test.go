package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeshop/internal/cart"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.Get(context.Background(), "cart:nope")
	assert.ErrorIs(t, err, cart.ErrKeyNotFound)
}

func TestMemoryStore_SetGet_Copies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	in := []byte(`{"version":1,"items":[]}`)
	require.NoError(t, m.Set(ctx, "k", in))

	// 呼び出し側のバッファを書き換えても保存値は変わらない
	in[0] = 'X'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"items":[]}`, string(out))

	out[0] = 'Y'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again[0])
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(Options{Kind: ""})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(Options{Kind: "Redis", RedisAddr: "localhost:6379"})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = New(Options{Kind: "postgres"})
	assert.Error(t, err)

	_, err = New(Options{Kind: "etcd"})
	assert.Error(t, err)
}

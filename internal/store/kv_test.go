package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/trend-finder/internal/platform/memstore"
	"github.com/phrazzld/trend-finder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore is a KeyValueStore without Update support.
type plainStore struct {
	data map[string]string
}

func (p *plainStore) Get(_ context.Context, key string) (string, error) {
	v, ok := p.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (p *plainStore) Set(_ context.Context, key, value string) error {
	p.data[key] = value
	return nil
}

func (p *plainStore) Remove(_ context.Context, key string) error {
	delete(p.data, key)
	return nil
}

func TestWithPrefixScopesKeys(t *testing.T) {
	ctx := context.Background()
	inner := &plainStore{data: map[string]string{}}

	a := store.WithPrefix(inner, "usage:a:")
	b := store.WithPrefix(inner, "usage:b:")

	require.NoError(t, a.Set(ctx, "k", "1"))
	require.NoError(t, b.Set(ctx, "k", "2"))

	assert.Equal(t, map[string]string{"usage:a:k": "1", "usage:b:k": "2"}, inner.data)

	v, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, a.Remove(ctx, "k"))
	_, err = a.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)

	v, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestWithPrefixPreservesUpdater(t *testing.T) {
	plain := store.WithPrefix(&plainStore{data: map[string]string{}}, "p:")
	_, ok := plain.(store.Updater)
	assert.False(t, ok, "a store without Update must not gain one")

	mem := memstore.New(memstore.Options{})
	t.Cleanup(mem.Close)

	scoped := store.WithPrefix(mem, "p:")
	u, ok := scoped.(store.Updater)
	require.True(t, ok)

	ctx := context.Background()
	require.NoError(t, u.Update(ctx, "n", func(current string, found bool) (string, error) {
		assert.False(t, found)
		assert.Empty(t, current)
		return "1", nil
	}))

	v, err := mem.Get(ctx, "p:n")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestUnavailableWrapsDriverError(t *testing.T) {
	driverErr := errors.New("dial tcp: connection refused")
	err := store.Unavailable("redis", "get", "k", driverErr)

	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), `redis get "k"`)

	var se *store.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get", se.Operation)
	assert.False(t, store.IsNotFound(err))
}

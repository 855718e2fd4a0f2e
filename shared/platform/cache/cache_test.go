package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedUtils "github.com/davicafu/matafuegos/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ficha struct {
	Codigo string `json:"codigo"`
	Kg     int    `json:"kg"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ext:1", ficha{Codigo: "A-1", Kg: 5}, 0))

	var got ficha
	ok, err := c.Get(ctx, "ext:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ficha{Codigo: "A-1", Kg: 5}, got)

	require.NoError(t, c.Delete(ctx, "ext:1"))
	ok, _ = c.Get(ctx, "ext:1", &got)
	assert.False(t, ok)
}

func TestInMemoryCache_Expiration(t *testing.T) {
	c := NewInMemoryCache(time.Nanosecond, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "corta", 1, 0))
	require.NoError(t, c.Set(ctx, "eterna", 2, NoExpiration))
	time.Sleep(5 * time.Millisecond)

	var v int
	ok, _ := c.Get(ctx, "corta", &v)
	assert.False(t, ok)

	ok, _ = c.Get(ctx, "eterna", &v)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestGetOrLoad(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	ctx := context.Background()
	loads := 0
	load := func(ctx context.Context) (ficha, error) {
		loads++
		return ficha{Codigo: "B-2"}, nil
	}

	got, err := GetOrLoad(ctx, c, "ext:2", 60, zap.NewNop(), load)
	require.NoError(t, err)
	assert.Equal(t, "B-2", got.Codigo)

	assert.Eventually(t, func() bool {
		var f ficha
		ok, _ := c.Get(ctx, "ext:2", &f)
		return ok
	}, time.Second, 10*time.Millisecond)

	_, err = GetOrLoad(ctx, c, "ext:2", 60, zap.NewNop(), load)
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "el segundo Get sale de la caché")
}

func TestGetOrLoad_PermanentError(t *testing.T) {
	notFound := errors.New("not found")
	calls := 0
	_, err := GetOrLoad(context.Background(), nil, "x", 60, zap.NewNop(), func(ctx context.Context) (int, error) {
		calls++
		return 0, sharedUtils.Permanent(notFound)
	})
	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, 1, calls)
}

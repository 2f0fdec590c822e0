package ristretto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, Metrics: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(ctx) })

	ok, err := p.Set(ctx, "kinfit:ns:1:2:3:abc", []byte("frame"), 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	p.Wait()

	b, hit, err := p.Get(ctx, "kinfit:ns:1:2:3:abc")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("frame"), b)

	require.NoError(t, p.Del(ctx, "kinfit:ns:1:2:3:abc"))
	_, hit, err = p.Get(ctx, "kinfit:ns:1:2:3:abc")
	require.NoError(t, err)
	require.False(t, hit)
	require.NotNil(t, p.Metrics())
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	p, err := New(DefaultConfig(1 << 20))
	require.NoError(t, err)
	require.NoError(t, p.Close(context.Background()))
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitNoDelay(t *testing.T) {
	t.Parallel()

	g := New(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Wait(context.Background(), "https://ex.com/a"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitPacesSameHost(t *testing.T) {
	t.Parallel()

	g := New(50 * time.Millisecond)
	require.NoError(t, g.Wait(context.Background(), "https://ex.com/a"))

	start := time.Now()
	require.NoError(t, g.Wait(context.Background(), "https://ex.com/b"))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitHostsIndependent(t *testing.T) {
	t.Parallel()

	g := New(time.Second)
	start := time.Now()
	require.NoError(t, g.Wait(context.Background(), "https://one.com/"))
	require.NoError(t, g.Wait(context.Background(), "https://two.com/"))
	// First request per host passes without waiting.
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitContextCanceled(t *testing.T) {
	t.Parallel()

	g := New(time.Minute)
	require.NoError(t, g.Wait(context.Background(), "https://ex.com/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Wait(ctx, "https://ex.com/b")
	require.Error(t, err)
}

func TestWaitUnparsableURL(t *testing.T) {
	t.Parallel()

	g := New(0)
	assert.NoError(t, g.Wait(context.Background(), "::not a url::"))
}

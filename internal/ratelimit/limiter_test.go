package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire(t *testing.T) {
	t.Run("allows up to rate acquisitions without waiting", func(t *testing.T) {
		l := New(3, 60)
		fakeNow := time.Now()
		l.now = func() time.Time { return fakeNow }

		for i := 0; i < 3; i++ {
			assert.True(t, l.TryAcquire(), "acquisition %d should succeed", i)
		}
		assert.False(t, l.TryAcquire(), "bucket should be exhausted")
	})

	t.Run("refills over time", func(t *testing.T) {
		l := New(2, 10)
		fakeNow := time.Now()
		l.now = func() time.Time { return fakeNow }

		require.True(t, l.TryAcquire())
		require.True(t, l.TryAcquire())
		assert.False(t, l.TryAcquire())

		fakeNow = fakeNow.Add(5 * time.Second) // half the window refills 1 token
		assert.True(t, l.TryAcquire())
		assert.False(t, l.TryAcquire())
	})
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	l := New(1, 60)
	require.True(t, l.TryAcquire()) // exhaust the single token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReset(t *testing.T) {
	l := New(2, 60)
	require.True(t, l.TryAcquire())
	require.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())

	l.Reset()
	assert.True(t, l.TryAcquire())
}

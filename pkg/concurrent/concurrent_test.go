package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	items := make([]int, 16)

	err := Concurrent(context.Background(), items, 3, func(context.Context, int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestConcurrentReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Concurrent(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestParallelMapKeepsOrder(t *testing.T) {
	out, err := ParallelMap(context.Background(), []int{5, 1, 4, 2}, 0, func(_ context.Context, v int) (int, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return v * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 10, 40, 20}, out)
}

func TestParallelMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := ParallelMap(ctx, []string{"a", "b"}, 1, func(context.Context, string) (string, error) {
		return "x", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

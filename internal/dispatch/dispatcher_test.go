package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, interval time.Duration) *Dispatcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New("test", interval, logger)
	t.Cleanup(d.Stop)
	return d
}

func TestDispatcher_MinimumSpacing(t *testing.T) {
	const interval = 50 * time.Millisecond
	d := newTestDispatcher(t, interval)
	ctx := context.Background()

	var mu sync.Mutex
	var starts []time.Time
	work := func(ctx context.Context) ([]byte, error) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		return nil, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Submit(ctx, work)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		assert.GreaterOrEqual(t, gap, interval,
			"consecutive dispatches %d and %d started only %v apart", i-1, i, gap)
	}
}

func TestDispatcher_FIFOOrder(t *testing.T) {
	d := newTestDispatcher(t, time.Millisecond)
	ctx := context.Background()

	var mu sync.Mutex
	var order []int

	// Submit sequentially so enqueue order is deterministic, then wait for
	// all results.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		done := make(chan struct{})
		go func() {
			defer wg.Done()
			close(done)
			_, err := d.Submit(ctx, func(ctx context.Context) ([]byte, error) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil, nil
			})
			assert.NoError(t, err)
		}()
		<-done
		// Give the goroutine time to reach the enqueue before the next one.
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	d := newTestDispatcher(t, time.Millisecond)
	ctx := context.Background()

	boom := errors.New("upstream exploded")
	_, err := d.Submit(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	// The queue keeps serving after a failed unit.
	body, err := d.Submit(ctx, func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
}

func TestDispatcher_CancelledWhileQueued(t *testing.T) {
	d := newTestDispatcher(t, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Submit(ctx, func(ctx context.Context) ([]byte, error) {
		t.Error("work should not run for a cancelled caller")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New("test", time.Millisecond, logger)
	d.Stop()

	// The worker may still be shutting down; Submit must fail either way.
	_, err := d.Submit(context.Background(), func(ctx context.Context) ([]byte, error) {
		return nil, nil
	})
	assert.Error(t, err)
}

func TestDispatcher_SubmitAfterStopNeverBlocks(t *testing.T) {
	// Submit can win the enqueue race against Stop after the worker has
	// already drained and exited. The caller must still be released, even
	// with a background context that never cancels.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 50; i++ {
		d := New("test", time.Millisecond, logger)
		d.Stop()
		time.Sleep(5 * time.Millisecond)

		returned := make(chan error, 1)
		go func() {
			_, err := d.Submit(context.Background(), func(ctx context.Context) ([]byte, error) {
				return nil, nil
			})
			returned <- err
		}()

		select {
		case err := <-returned:
			assert.ErrorIs(t, err, ErrClosed)
		case <-time.After(2 * time.Second):
			t.Fatalf("iteration %d: Submit after Stop never returned", i)
		}
	}
}

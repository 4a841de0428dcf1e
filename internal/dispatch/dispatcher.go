// Package dispatch serializes outbound requests to a shared-quota upstream
// service. Each upstream (Overpass, Nominatim) owns one Dispatcher instance
// so their quotas stay independent.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrClosed is returned for submissions after Stop.
var ErrClosed = errors.New("dispatcher closed")

// UnitOfWork is one queued upstream call. It is executed by the single
// worker goroutine; the returned body/error is delivered back to the
// submitting caller exactly once.
type UnitOfWork func(ctx context.Context) ([]byte, error)

type result struct {
	body []byte
	err  error
}

type job struct {
	ctx  context.Context
	work UnitOfWork
	done chan result
}

// Dispatcher guarantees that no two units of work dispatched through the
// same instance start less than the configured minimum interval apart,
// regardless of how many callers submit concurrently. Work executes
// one-at-a-time in FIFO arrival order; a failing unit only affects its own
// caller.
type Dispatcher struct {
	name        string
	minInterval time.Duration
	jobs        chan job
	quit        chan struct{}
	logger      *slog.Logger
}

// New starts a Dispatcher with a single worker loop. Only the worker ever
// dequeues, so no locking is needed around the queue.
func New(name string, minInterval time.Duration, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		name:        name,
		minInterval: minInterval,
		jobs:        make(chan job, 64),
		quit:        make(chan struct{}),
		logger:      logger,
	}
	go d.loop()
	return d
}

// Submit enqueues a unit of work and blocks until it completes or until ctx
// is cancelled before the unit is dispatched. Once dispatched, a unit runs
// to completion; a caller that gave up simply never reads the buffered
// result.
func (d *Dispatcher) Submit(ctx context.Context, work UnitOfWork) ([]byte, error) {
	j := job{ctx: ctx, work: work, done: make(chan result, 1)}

	select {
	case d.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.quit:
		return nil, ErrClosed
	}

	select {
	case res := <-j.done:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.quit:
		// The enqueue can race with Stop and win after the worker has
		// already drained and exited, leaving the job orphaned in the
		// buffered channel. Prefer a result that made it out; otherwise
		// release the caller instead of blocking forever.
		select {
		case res := <-j.done:
			return res.body, res.err
		default:
			return nil, ErrClosed
		}
	}
}

// Stop terminates the worker loop. Queued work that has not been dispatched
// is abandoned; its callers are released with ErrClosed.
func (d *Dispatcher) Stop() {
	close(d.quit)
}

func (d *Dispatcher) loop() {
	for {
		select {
		case <-d.quit:
			d.drain()
			return
		case j := <-d.jobs:
			// A caller that cancelled while queued gets its error without
			// consuming a dispatch slot or the spacing interval.
			if err := j.ctx.Err(); err != nil {
				j.done <- result{err: err}
				continue
			}

			start := time.Now()
			body, err := j.work(j.ctx)
			if err != nil {
				d.logger.Debug("dispatched unit of work failed",
					slog.String("dispatcher", d.name),
					slog.Duration("took", time.Since(start)),
					slog.Any("error", err))
			}
			j.done <- result{body: body, err: err}

			// Minimum spacing between consecutive dispatches, success or
			// failure alike. Waiting after completion keeps consecutive
			// starts at least minInterval apart.
			select {
			case <-time.After(d.minInterval):
			case <-d.quit:
				d.drain()
				return
			}
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case j := <-d.jobs:
			j.done <- result{err: ErrClosed}
		default:
			return
		}
	}
}

// Package writegate serializes snapshot writers through a single FIFO
// worker. The persisted store mutates its collection by full
// read-modify-write; two in-process writers interleaving those cycles
// would lose updates, so every mutation funnels through one gate.
package writegate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Fn is a unit of work executed by the gate worker.
type Fn func(ctx context.Context) error

// Config tunes gate capacity. Zero values select defaults.
type Config struct {
	QueueSize      int           // pending writers allowed before back-pressure (default 64)
	EnqueueTimeout time.Duration // how long Do waits for queue space (default 100ms)
}

type queued struct {
	ctx  context.Context
	fn   Fn
	done chan error
}

// Gate executes functions strictly in submission order on one worker
// goroutine. Do blocks the caller until its function has run.
type Gate struct {
	cfg   Config
	queue chan queued

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// New constructs the gate and starts its worker.
func New(cfg Config) *Gate {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	g := &Gate{
		cfg:   cfg,
		queue: make(chan queued, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	g.wg.Add(1)
	go g.runWorker()
	return g
}

// Do enqueues fn and waits for it to execute, returning fn's error.
//
//   - Returns ErrGateClosed if the gate is stopped.
//   - Returns ErrQueueFull (wrapped in *QueueFullError) if no queue space
//     opens within EnqueueTimeout.
//   - Returns ctx.Err() if the caller's context is cancelled first.
func (g *Gate) Do(ctx context.Context, fn Fn) error {
	if atomic.LoadUint32(&g.closed) == 1 {
		return ErrGateClosed
	}
	select {
	case <-g.done:
		return ErrGateClosed
	default:
	}

	q := queued{ctx: ctx, fn: fn, done: make(chan error, 1)}

	timer := time.NewTimer(g.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case g.queue <- q:
		submissionsTotal.Inc()
	case <-g.done:
		return ErrGateClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.Inc()
		return &QueueFullError{Length: len(g.queue), Capacity: cap(g.queue)}
	}

	select {
	case err := <-q.done:
		return err
	case <-ctx.Done():
		// The worker will still run fn; the caller just stops waiting.
		return ctx.Err()
	}
}

// Stop drains the queue, waits for the worker to exit, and rejects all
// later submissions. Idempotent and safe for concurrent use.
func (g *Gate) Stop() {
	if !atomic.CompareAndSwapUint32(&g.closed, 0, 1) {
		return
	}
	close(g.done)
	g.wg.Wait()
	log.Debug().Msg("writegate: stopped, queue drained")
}

// Close lets Gate satisfy io.Closer.
func (g *Gate) Close() error {
	g.Stop()
	return nil
}

func (g *Gate) runWorker() {
	defer g.wg.Done()

	for {
		select {
		case q := <-g.queue:
			g.run(q)
			queueDepth.Set(float64(len(g.queue)))
		case <-g.done:
			// Drain remaining writers in FIFO order, then exit.
			for {
				select {
				case q := <-g.queue:
					g.run(q)
				default:
					queueDepth.Set(0)
					return
				}
			}
		}
	}
}

func (g *Gate) run(q queued) {
	if q.fn == nil {
		return
	}
	var err error
	func() {
		// A panicking writer must not take the gate down with it.
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("writegate: writer panic")
				err = ErrWriterPanic
			}
		}()
		select {
		case <-q.ctx.Done():
			err = q.ctx.Err()
		default:
			start := time.Now()
			err = q.fn(q.ctx)
			runDuration.Observe(time.Since(start).Seconds())
		}
	}()
	q.done <- err
}

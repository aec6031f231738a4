package peer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/energy-platform/mesh/internal/api/metrics"
	"github.com/energy-platform/mesh/internal/core/domain"
	"github.com/energy-platform/mesh/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

type delivery struct {
	ctx  context.Context
	seed ports.ProfileSeed
}

// Dispatcher delivers profile creations to a ProfileBridge on a fixed set of
// workers so registration never waits on the user service. It implements
// ports.ProfileBridge itself.
type Dispatcher struct {
	target  ports.ProfileBridge
	queue   chan delivery
	workers int
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Non-positive sizes use the defaults.
func NewDispatcher(target ports.ProfileBridge, workers, buffer int, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		target:  target,
		queue:   make(chan delivery, buffer),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. They stop when ctx is cancelled or after Close
// has drained the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// OnIdentityCreated queues seed and returns at once. A full or closed queue
// drops the seed and returns ErrBridgeQueueFull.
func (d *Dispatcher) OnIdentityCreated(ctx context.Context, seed ports.ProfileSeed) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.BridgeCallsTotal.WithLabelValues("dropped").Inc()
		return domain.ErrBridgeQueueFull
	}

	select {
	case d.queue <- delivery{ctx: context.WithoutCancel(ctx), seed: seed}:
		metrics.BridgeQueueDepth.Set(float64(len(d.queue)))
		return nil
	default:
		metrics.BridgeCallsTotal.WithLabelValues("dropped").Inc()
		return domain.ErrBridgeQueueFull
	}
}

// Close stops intake and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.queue:
			if !ok {
				return
			}
			metrics.BridgeQueueDepth.Set(float64(len(d.queue)))
			d.deliver(job, id)
		}
	}
}

func (d *Dispatcher) deliver(job delivery, worker int) {
	start := time.Now()
	err := d.target.OnIdentityCreated(job.ctx, job.seed)
	metrics.BridgeCallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BridgeCallsTotal.WithLabelValues("failed").Inc()
		d.log.Warn().Err(err).
			Str("user_id", job.seed.ID.String()).
			Int("worker_id", worker).
			Msg("profile bridge delivery failed")
		return
	}
	metrics.BridgeCallsTotal.WithLabelValues("delivered").Inc()
	d.log.Debug().Str("user_id", job.seed.ID.String()).Msg("companion profile created")
}

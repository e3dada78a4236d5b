package notification

import (
	"context"
	"sync"
	"time"

	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"

	"github.com/sourcegraph/conc"
)

// Notifier is anything that can deliver a single notification synchronously.
type Notifier interface {
	Notify(ctx context.Context, userID, eventType string, payload Payload) bool
}

// Pool runs notifications in the background on a fixed set of workers
// reading from a bounded queue.
type Pool struct {
	notifier Notifier
	queue    chan Job
	timeout  time.Duration
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     conc.WaitGroup
}

func NewPool(notifier Notifier, queueSize, workers int, timeout time.Duration, log logger.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		notifier: notifier,
		queue:    make(chan Job, queueSize),
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"component": "notification_pool"}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Go(p.work)
	}
	return p
}

// Submit enqueues job without blocking. It returns false when the queue is
// full or the pool is closed.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("notification rejected: pool closed", map[string]interface{}{
			"userId":    job.UserID,
			"eventType": job.EventType,
		})
		return false
	}

	select {
	case p.queue <- job:
		metrics.NotificationQueueDepth.Set(float64(len(p.queue)))
		return true
	default:
		p.logger.Warn("notification rejected: queue full", map[string]interface{}{
			"userId":    job.UserID,
			"eventType": job.EventType,
		})
		return false
	}
}

func (p *Pool) work() {
	for job := range p.queue {
		metrics.NotificationQueueDepth.Set(float64(len(p.queue)))
		p.run(job)
	}
}

func (p *Pool) run(job Job) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	p.notifier.Notify(ctx, job.UserID, job.EventType, job.Payload)
}

// Close stops accepting jobs and waits for queued ones to finish, or for ctx
// to end, whichever comes first.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

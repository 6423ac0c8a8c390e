package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
	"github.com/finscope/estimates-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrDispatcherStopped is returned by Record once Stop has been called.
var ErrDispatcherStopped = errors.New("audit dispatcher stopped")

// AuditDispatcher moves audit writes off the request path. Entries are routed
// to a fixed set of workers by user id, so one user's entries are written in
// the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	sink    ports.AuditLog
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ ports.AuditLog = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher writing to sink with numWorkers
// sharded workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.AuditLog, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. They run until Stop drains them.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues entry. It blocks while the worker's buffer is full, until
// ctx is done.
func (d *AuditDispatcher) Record(ctx context.Context, entry domain.AuditEntry) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	ch := d.workers[d.shardIndex(entry.UserID)]
	select {
	case ch <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(d.shardIndex(entry.UserID))).Set(float64(len(ch)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new entries and waits for queued ones to be written, or for
// ctx to expire.
func (d *AuditDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(userID int64) int {
	return int(uint64(userID) % uint64(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for entry := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.sink.Record(context.Background(), entry); err != nil {
			metrics.AuditWriteFailuresTotal.Inc()
			d.log.Error().Err(err).
				Int64("user_id", entry.UserID).
				Str("action", entry.Action).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}

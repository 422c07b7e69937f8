package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduportal/academic-api/internal/api/metrics"
	"github.com/eduportal/academic-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// ErrDispatcherClosed is returned when mail is enqueued after Close.
var ErrDispatcherClosed = errors.New("mail dispatcher closed")

// MailDispatcher delivers mail in the background through a fixed set of
// workers. Messages are sharded by recipient, so mail to one address is
// delivered in the order it was enqueued.
//
// MailDispatcher implements ports.Mailer; SendPasswordReset returns once the
// message is queued.
type MailDispatcher struct {
	workers []chan ports.ResetEmail
	backend ports.Mailer
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, backend ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.ResetEmail, numWorkers),
		backend: backend,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ResetEmail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their queue.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// SendPasswordReset queues msg for the worker responsible for its recipient.
// It blocks only while that worker's queue is full, and gives up when ctx is done.
func (d *MailDispatcher) SendPasswordReset(ctx context.Context, msg ports.ResetEmail) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting mail and waits until queued messages are delivered.
func (d *MailDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ResetEmail) {
	defer d.wg.Done()
	depth := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, id int, msg ports.ResetEmail) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.backend.SendPasswordReset(sendCtx, msg)
	metrics.MailDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailsSentTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("recipient", msg.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailsSentTotal.WithLabelValues("sent").Inc()
}

package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher defaults
const (
	DefaultQueueSize   = 256
	DefaultWorkers     = 2
	DefaultMaxAttempts = 3
	DefaultBackoff     = 500 * time.Millisecond
	DefaultSendTimeout = 10 * time.Second
)

// DispatcherOptions tune a Dispatcher. Zero values take the defaults.
type DispatcherOptions struct {
	QueueSize   int
	Workers     int
	MaxAttempts int
	// Backoff is the wait before the second attempt; it doubles after
	// every further failure.
	Backoff     time.Duration
	SendTimeout time.Duration
}

// Dispatcher queues mail and delivers it on background workers
type Dispatcher struct {
	sender      Sender
	queue       chan Mail
	maxAttempts int
	backoff     time.Duration
	sendTimeout time.Duration
	logger      *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher and starts its workers
func NewDispatcher(sender Sender, opts DispatcherOptions, logger *zap.Logger) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	} else if opts.Backoff == 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		sender:      sender,
		queue:       make(chan Mail, opts.QueueSize),
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		sendTimeout: opts.SendTimeout,
		logger:      logger,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue hands mail to the workers without blocking. It returns false when
// the mail was dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(m Mail) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("mail dropped, dispatcher closed", zap.String("to", m.To))
		return false
	}
	select {
	case d.queue <- m:
		return true
	default:
		d.logger.Warn("mail dropped, queue full", zap.String("to", m.To))
		return false
	}
}

// Close stops accepting mail and waits for queued mail to be delivered or
// to exhaust its attempts
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for m := range d.queue {
		d.deliver(m)
	}
}

func (d *Dispatcher) deliver(m Mail) {
	wait := d.backoff
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.sender.Send(ctx, m)
		cancel()
		if err == nil {
			return
		}

		d.logger.Warn("mail delivery failed",
			zap.String("to", m.To),
			zap.String("subject", m.Subject),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < d.maxAttempts {
			time.Sleep(wait)
			wait *= 2
		}
	}
	d.logger.Error("mail abandoned",
		zap.String("to", m.To),
		zap.Int("attempts", d.maxAttempts))
}

// Package events records and serves the team activity feed.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"go.uber.org/zap"
)

const (
	// DefaultRecordTimeout bounds one asynchronous event write
	DefaultRecordTimeout  = 5 * time.Second
	DefaultRecordAttempts = 3
	DefaultRecordBackoff  = 100 * time.Millisecond
)

// RecorderOptions tune a Recorder. Zero values take the defaults.
type RecorderOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	// Backoff is the wait before the second write; it doubles after
	// every further failure.
	Backoff     time.Duration
}

// Sink stores events
type Sink interface {
	Insert(ctx context.Context, event *models.Event) error
}

// RecordInput describes one activity
type RecordInput struct {
	TeamID   uint
	UserID   uint
	Action   models.EventAction
	Object   models.EventObject
	TargetID uint
}

// Recorder appends events in the background. A failed write is logged and
// never reaches the workflow that triggered it.
type Recorder struct {
	sink        Sink
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger
	wg          sync.WaitGroup
}

// NewRecorder creates a new event recorder with the default retry policy
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	return NewRecorderWithOptions(sink, RecorderOptions{}, logger)
}

// NewRecorderWithOptions creates a new event recorder
func NewRecorderWithOptions(sink Sink, opts RecorderOptions, logger *zap.Logger) *Recorder {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRecordTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRecordAttempts
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	} else if opts.Backoff == 0 {
		opts.Backoff = DefaultRecordBackoff
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		sink:        sink,
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		logger:      logger,
	}
}

// Record writes the event asynchronously. ctx values are kept but its
// cancellation is not, so the write outlives the request that caused it.
func (r *Recorder) Record(ctx context.Context, in RecordInput) {
	if r == nil || r.sink == nil {
		return
	}
	event := &models.Event{
		TeamID:        in.TeamID,
		UserID:        in.UserID,
		ActionString:  in.Action,
		ObjectString:  in.Object,
		EventTargetID: in.TargetID,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(context.WithoutCancel(ctx), event)
	}()
}

func (r *Recorder) write(ctx context.Context, event *models.Event) {
	wait := r.backoff
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		recordCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.sink.Insert(recordCtx, event)
		cancel()
		if err == nil {
			return
		}

		r.logger.Warn("could not record event",
			zap.Uint("team_id", event.TeamID),
			zap.Uint("user_id", event.UserID),
			zap.String("action", string(event.ActionString)),
			zap.String("object", string(event.ObjectString)),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < r.maxAttempts {
			time.Sleep(wait)
			wait *= 2
		}
	}
	r.logger.Error("event dropped",
		zap.Uint("team_id", event.TeamID),
		zap.Int("attempts", r.maxAttempts))
}

// Wait blocks until every pending write finished
func (r *Recorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when the dispatch buffer has no room left.
var ErrQueueFull = errors.New("event queue full")

// Event is a message waiting to be published.
type Event struct {
	ID       string
	Subject  string
	Payload  any
	Attempt  int
	Enqueued time.Time
}

// DispatcherConfig tunes the worker pool.
type DispatcherConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Dispatcher publishes events from a buffered channel on background workers,
// retrying failed publishes with a fixed delay.
type Dispatcher struct {
	publisher Publisher

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	events  chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewDispatcher builds a dispatcher around publisher.
func NewDispatcher(publisher Publisher, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 64
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Dispatcher{
		publisher:  publisher,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		events:     make(chan Event, cfg.BufferSize),
	}
}

// Start launches the workers. Safe to call once.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.started = true
	d.logger.Info("event dispatcher started", zap.Int("workers", d.workers))
}

// Stop cancels the workers and waits for them to exit. Buffered events that
// were not yet published are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Info("event dispatcher stopped", zap.Int("dropped", len(d.events)))
}

// Dispatch queues an event without blocking the caller.
func (d *Dispatcher) Dispatch(ev Event) error {
	d.mu.Lock()
	ctx := d.ctx
	started := d.started
	d.mu.Unlock()

	if !started {
		return errors.New("event dispatcher not started")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("event dispatcher stopped: %w", err)
	}
	if ev.Enqueued.IsZero() {
		ev.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("event dispatcher stopped: %w", ctx.Err())
	case d.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case ev := <-d.events:
			if err := d.publisher.Publish(d.ctx, ev.Subject, ev.Payload); err != nil {
				d.handleFailure(ev, err)
			}
		}
	}
}

func (d *Dispatcher) handleFailure(ev Event, err error) {
	ev.Attempt++
	if ev.Attempt > d.maxRetries {
		d.logger.Error("event exceeded retries",
			zap.String("event_id", ev.ID), zap.String("subject", ev.Subject), zap.Error(err))
		return
	}
	d.logger.Warn("event publish failed, retrying",
		zap.String("event_id", ev.ID), zap.String("subject", ev.Subject), zap.Int("attempt", ev.Attempt), zap.Error(err))

	go func(e Event) {
		timer := time.NewTimer(d.retryDelay)
		defer timer.Stop()
		select {
		case <-d.ctx.Done():
			return
		case <-timer.C:
			if err := d.Dispatch(e); err != nil {
				d.logger.Error("failed to requeue event", zap.String("event_id", e.ID), zap.Error(err))
			}
		}
	}(ev)
}

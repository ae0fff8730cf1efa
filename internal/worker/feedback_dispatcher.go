package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/stampcard/internal/adapter/feedback"
	"github.com/polkiloo/stampcard/internal/domain/model"
)

// FeedbackDispatcher fans out feedback events to the configured sink with a
// bounded queue and a worker pool. Events are pure notifications: when the
// queue is full the event is dropped with a warning rather than blocking a
// commit or claim on the feedback layer.
type FeedbackDispatcher struct {
	sink    feedback.Sink
	workers int
	logger  *slog.Logger

	events chan model.FeedbackEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewFeedbackDispatcher constructs the dispatcher worker pool.
func NewFeedbackDispatcher(sink feedback.Sink, workers, buffer int, logger *slog.Logger) *FeedbackDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &FeedbackDispatcher{
		sink:    sink,
		workers: workers,
		logger:  logger,
		events:  make(chan model.FeedbackEvent, buffer),
	}
}

// Start launches background delivery.
func (d *FeedbackDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for all workers to finish. Queued events that were not yet
// picked up are dropped; feedback has no delivery guarantee.
func (d *FeedbackDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Publish enqueues an event without blocking the caller.
func (d *FeedbackDispatcher) Publish(event model.FeedbackEvent) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("feedback queue full, dropping event",
			slog.String("kind", string(event.Kind)),
			slog.Int64("card_id", event.CardID),
		)
	}
}

func (d *FeedbackDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			if err := d.sink.Deliver(ctx, event); err != nil {
				d.logger.Error("feedback delivery failed",
					slog.String("kind", string(event.Kind)),
					slog.Int64("card_id", event.CardID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

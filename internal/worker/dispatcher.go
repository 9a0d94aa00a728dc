package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/etproforma/commerce/internal/domain/model"
)

// Notifier delivers one order event to the external notification service.
type Notifier interface {
	Notify(ctx context.Context, event model.OrderEvent) error
}

// Dispatcher delivers order events to the notification collaborator
// asynchronously, keeping delivery failures out of the transactional
// path that produced the event.
type Dispatcher struct {
	notifier Notifier
	workers  int
	logger   *slog.Logger

	events chan model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(notifier Notifier, workers, buffer int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &Dispatcher{
		notifier: notifier,
		workers:  workers,
		logger:   logger,
		events:   make(chan model.OrderEvent, buffer),
	}
}

// Start launches background delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for all workers to finish. Undelivered events are dropped;
// notification is fire-and-forget by contract.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Publish enqueues an event without blocking the caller. A full queue
// drops the event with a log line rather than stalling a request.
func (d *Dispatcher) Publish(event model.OrderEvent) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("notification queue full, dropping event",
			slog.Int64("order_id", event.OrderID),
			slog.Int64("recipient", event.RecipientID),
		)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			if err := d.notifier.Notify(ctx, event); err != nil {
				d.logger.Error("notification delivery failed",
					slog.Int64("order_id", event.OrderID),
					slog.Int64("recipient", event.RecipientID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

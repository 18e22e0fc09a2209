package notify

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// DefaultQueueSize is the number of events buffered before new ones are dropped.
const DefaultQueueSize = 1024

// Queue decouples callers from publishing: Notify never blocks, Run drains the buffer.
type Queue struct {
	events  chan domain.StatusEvent
	next    publisher
	logger  logx.Logger
	dropped counter
}

// NewQueue creates a new Queue.
func NewQueue(next publisher, size int, logger logx.Logger, dropped counter) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events:  make(chan domain.StatusEvent, size),
		next:    next,
		logger:  logger,
		dropped: dropped,
	}
}

// Notify enqueues ev or drops it when the buffer is full.
func (q *Queue) Notify(_ context.Context, ev domain.StatusEvent) {
	select {
	case q.events <- ev:
	default:
		q.drop(ev, nil)
	}
}

// Run publishes queued events until ctx is done, then flushes what is already buffered.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-q.events:
			q.publish(ctx, ev)
		case <-ctx.Done():
			q.flush()
			return nil
		}
	}
}

func (q *Queue) flush() {
	for {
		select {
		case ev := <-q.events:
			q.publish(context.Background(), ev)
		default:
			return
		}
	}
}

func (q *Queue) publish(ctx context.Context, ev domain.StatusEvent) {
	if err := q.next.Publish(ctx, ev); err != nil {
		q.drop(ev, err)
	}
}

func (q *Queue) drop(ev domain.StatusEvent, err error) {
	if q.dropped != nil {
		q.dropped.Inc()
	}
	q.logger.Warn("status event dropped",
		logx.Int64("order_id", ev.OrderID),
		logx.String("status", string(ev.Status)),
		logx.Err(err),
	)
}

// Nop discards every event.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, domain.StatusEvent) {}

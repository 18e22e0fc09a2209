package orders

import (
	"context"
	"errors"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// Processor turns order events into dispatch commands.
type Processor struct {
	dispatcher Dispatcher
	logger     logx.Logger
	factory    *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(d Dispatcher, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		dispatcher: d,
		logger:     logger,
	}
	p.factory = newActionFactory(p.onPlaced, p.onCancelled)
	return p
}

// Handle processes a single orders.Event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

// onPlaced tries an immediate match. Orders left unmatched are picked up by the dispatch pass.
func (p *Processor) onPlaced(ctx context.Context, e Event) error {
	res, err := p.dispatcher.AssignAutomatically(ctx, e.OrderID)
	switch {
	case err == nil:
		p.logger.Debug("order dispatched from event",
			logx.Int64("order_id", e.OrderID),
			logx.Int64("courier_id", res.CourierID),
		)
		return nil
	case errors.Is(err, apperr.ErrNoCourierAvailable):
		p.logger.Info("order waiting for courier",
			logx.Int64("order_id", e.OrderID),
			logx.String("service_area", e.ServiceArea),
		)
		return nil
	case errors.Is(err, apperr.ErrAlreadyAssigned),
		errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	reason := e.Reason
	if reason == "" {
		reason = "order cancelled"
	}
	_, err := p.dispatcher.Cancel(ctx, e.OrderID, reason)
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidTransition) {
		return nil
	}
	return err
}

package app

import (
	"context"
	"errors"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/transport/kafka"
)

// makeOrdersHandler adapts the processor to the consumer. Malformed events are
// permanent so the consumer commits past them instead of redelivering.
func makeOrdersHandler(p *orders.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		err := p.Handle(ctx, event)
		if errors.Is(err, apperr.ErrInvalid) || errors.Is(err, apperr.ErrInvalidServiceArea) {
			return kafka.Permanent(err)
		}
		return err
	}
}

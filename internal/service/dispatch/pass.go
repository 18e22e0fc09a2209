package dispatch

import (
	"context"
	"errors"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

var redispatchStatuses = []domain.OrderStatus{
	domain.OrderPlaced, domain.OrderPacked, domain.OrderRejected, domain.OrderAssignmentFailed,
}

// DispatchPass retries waiting orders in every area that has available couriers.
// It returns the number of orders assigned.
func (e *Engine) DispatchPass(ctx context.Context) (int, error) {
	assigned := 0
	for _, area := range e.registry.Areas() {
		if err := ctx.Err(); err != nil {
			return assigned, err
		}
		n, err := e.dispatchArea(ctx, area)
		assigned += n
		if err != nil {
			return assigned, err
		}
	}
	if assigned > 0 {
		e.logger.Info("dispatch pass finished", logx.Int("assigned", assigned))
	}
	return assigned, nil
}

func (e *Engine) dispatchArea(ctx context.Context, area string) (int, error) {
	listCtx, cancel := e.withTimeout(ctx)
	orders, err := e.orders.FindOrdersByStatus(listCtx, area, redispatchStatuses...)
	cancel()
	if err != nil {
		return 0, err
	}

	assigned := 0
	for i := range orders {
		opCtx, cancel := e.withTimeout(ctx)
		_, err := e.autoAssign(opCtx, &orders[i], nil, ModeAuto)
		cancel()
		switch {
		case err == nil:
			assigned++
		case errors.Is(err, apperr.ErrNoCourierAvailable),
			errors.Is(err, apperr.ErrAlreadyAssigned),
			errors.Is(err, apperr.ErrInvalidTransition):
		default:
			e.logger.Warn("dispatch pass: order not assigned",
				logx.Int64("order_id", orders[i].ID),
				logx.String("service_area", area),
				logx.Err(err),
			)
		}
	}
	return assigned, nil
}

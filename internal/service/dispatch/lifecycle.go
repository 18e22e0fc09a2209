package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Accept confirms the assignment on behalf of the assigned courier.
// Accepting an already accepted order succeeds without changes.
func (e *Engine) Accept(ctx context.Context, orderID, courierID int64) (domain.Order, error) {
	if orderID <= 0 || courierID <= 0 {
		return domain.Order{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.AssignedTo(courierID) {
		return domain.Order{}, fmt.Errorf("order %d, courier %d: %w", orderID, courierID, apperr.ErrNotAssignedToCourier)
	}
	if order.Status == domain.OrderAccepted {
		return *order, nil
	}
	if order.Status != domain.OrderAssigned {
		return domain.Order{}, fmt.Errorf("accept order %d in %s: %w", orderID, order.Status, apperr.ErrInvalidTransition)
	}

	order.Status = domain.OrderAccepted
	if err := e.orders.SaveOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	now := e.now()
	err = e.updateAssignment(ctx, orderID, courierID, func(a *domain.Assignment) {
		a.Status = domain.AssignmentAccepted
		a.AcceptedAt = &now
	})
	if err != nil {
		return domain.Order{}, err
	}

	e.transitioned(ctx, order, "")
	return *order, nil
}

// Reject returns the order to the pool and tries to hand it to another courier.
// A failed rematch parks the order in ASSIGNMENT_FAILED; it is reported in the result, never as an error.
func (e *Engine) Reject(ctx context.Context, orderID, courierID int64, reason string) (domain.RejectResult, error) {
	if orderID <= 0 || courierID <= 0 {
		return domain.RejectResult{}, apperr.ErrInvalid
	}
	reason = strings.TrimSpace(reason)
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.RejectResult{}, err
	}
	if !order.AssignedTo(courierID) {
		return domain.RejectResult{}, fmt.Errorf("order %d, courier %d: %w", orderID, courierID, apperr.ErrNotAssignedToCourier)
	}
	if order.Status != domain.OrderAssigned {
		return domain.RejectResult{}, fmt.Errorf("reject order %d in %s: %w", orderID, order.Status, apperr.ErrInvalidTransition)
	}

	order.Release(domain.OrderRejected)
	if err := e.orders.SaveOrder(ctx, order); err != nil {
		return domain.RejectResult{}, err
	}

	now := e.now()
	err = e.updateAssignment(ctx, orderID, courierID, func(a *domain.Assignment) {
		a.Status = domain.AssignmentRejected
		a.RejectedAt = &now
		a.RejectionReason = reason
	})
	if err != nil {
		return domain.RejectResult{}, err
	}

	e.metrics.Rejected()
	e.transitioned(ctx, order, reason)
	e.logger.Info("assignment rejected",
		logx.String("event", "assignment_rejected"),
		logx.Int64("order_id", orderID),
		logx.Int64("courier_id", courierID),
		logx.String("reason", reason),
	)

	if err := e.couriers.SetAvailabilityFlag(ctx, courierID, true); err != nil {
		e.logger.Warn("availability flag not updated",
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
	} else if err := e.restoreAvailability(ctx, courierID); err != nil {
		e.logger.Warn("availability not restored",
			logx.Int64("courier_id", courierID),
			logx.Err(err),
		)
	}

	return e.reassign(ctx, order, courierID), nil
}

func (e *Engine) reassign(ctx context.Context, order *domain.Order, rejectedBy int64) domain.RejectResult {
	res, err := e.autoAssign(ctx, order, map[int64]struct{}{rejectedBy: {}}, ModeReassign)
	if err == nil {
		return domain.RejectResult{
			OrderID:      order.ID,
			Status:       domain.OrderAssigned,
			Reassigned:   true,
			NewCourierID: res.CourierID,
		}
	}

	e.logger.Warn("reassignment failed",
		logx.String("event", "reassignment_failed"),
		logx.Int64("order_id", order.ID),
		logx.Err(err),
	)

	current, loadErr := e.loadOrder(ctx, order.ID)
	if loadErr != nil {
		e.logger.Error("order not reloaded after failed reassignment",
			logx.Int64("order_id", order.ID),
			logx.Err(loadErr),
		)
		return domain.RejectResult{OrderID: order.ID, Status: order.Status}
	}
	if current.Status != domain.OrderRejected {
		// Someone else moved it on meanwhile.
		return domain.RejectResult{OrderID: current.ID, Status: current.Status}
	}

	current.Status = domain.OrderAssignmentFailed
	if err := e.orders.SaveOrder(ctx, current); err != nil {
		e.logger.Error("order not marked as assignment failed",
			logx.Int64("order_id", order.ID),
			logx.Err(err),
		)
		return domain.RejectResult{OrderID: order.ID, Status: domain.OrderRejected}
	}
	e.metrics.Failed()
	e.transitioned(ctx, current, "no courier available")
	return domain.RejectResult{OrderID: current.ID, Status: domain.OrderAssignmentFailed}
}

// AdvanceStatus moves the order forward on behalf of the assigned courier.
// Requesting the current status again succeeds without changes.
func (e *Engine) AdvanceStatus(ctx context.Context, orderID, courierID int64, next domain.OrderStatus) (domain.Order, error) {
	if orderID <= 0 || courierID <= 0 || !next.Valid() {
		return domain.Order{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.AssignedTo(courierID) {
		return domain.Order{}, fmt.Errorf("order %d, courier %d: %w", orderID, courierID, apperr.ErrNotAssignedToCourier)
	}
	if order.Status == next {
		return *order, nil
	}
	if !order.Status.CanAdvanceTo(next) {
		return domain.Order{}, fmt.Errorf("order %d %s -> %s: %w", orderID, order.Status, next, apperr.ErrInvalidTransition)
	}
	if next == domain.OrderCancelled {
		if err := e.cancel(ctx, order, "cancelled by courier"); err != nil {
			return domain.Order{}, err
		}
		return *order, nil
	}

	now := e.now()
	order.Status = next
	switch next {
	case domain.OrderPickedUp:
		order.PickedUpAt = &now
	case domain.OrderDelivered:
		order.DeliveredAt = &now
	}
	if err := e.orders.SaveOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}

	switch next {
	case domain.OrderPickedUp:
		err = e.updateAssignment(ctx, orderID, courierID, func(a *domain.Assignment) {
			a.Status = domain.AssignmentPickedUp
			a.PickedUpAt = &now
		})
	case domain.OrderDelivered:
		err = e.updateAssignment(ctx, orderID, courierID, func(a *domain.Assignment) {
			minutes := a.DeliveryDuration(now)
			a.Status = domain.AssignmentDelivered
			a.DeliveredAt = &now
			a.DeliveryMinutes = &minutes
		})
	}
	if err != nil {
		return domain.Order{}, err
	}

	e.transitioned(ctx, order, "")
	if next == domain.OrderDelivered {
		if err := e.restoreAvailability(ctx, courierID); err != nil {
			e.logger.Warn("availability not restored",
				logx.Int64("courier_id", courierID),
				logx.Err(err),
			)
		}
	}
	return *order, nil
}

// Cancel cancels a non-terminal order, with or without a courier.
// Cancelling a cancelled order only retries the stock release.
func (e *Engine) Cancel(ctx context.Context, orderID int64, reason string) (domain.Order, error) {
	if orderID <= 0 {
		return domain.Order{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	switch order.Status {
	case domain.OrderCancelled:
		if err := e.orders.ReleaseStock(ctx, orderID); err != nil {
			return domain.Order{}, err
		}
		return *order, nil
	case domain.OrderDelivered:
		return domain.Order{}, fmt.Errorf("cancel delivered order %d: %w", orderID, apperr.ErrInvalidTransition)
	}

	if err := e.cancel(ctx, order, strings.TrimSpace(reason)); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (e *Engine) cancel(ctx context.Context, order *domain.Order, reason string) error {
	now := e.now()
	order.Status = domain.OrderCancelled
	order.CancelledAt = &now
	if err := e.orders.SaveOrder(ctx, order); err != nil {
		return err
	}
	if err := e.orders.ReleaseStock(ctx, order.ID); err != nil {
		return fmt.Errorf("release stock of order %d: %w", order.ID, err)
	}

	if order.CourierID != nil {
		courierID := *order.CourierID
		err := e.updateAssignment(ctx, order.ID, courierID, func(a *domain.Assignment) {
			a.Status = domain.AssignmentCancelled
			a.CancelledAt = &now
		})
		if err != nil {
			return err
		}
		if err := e.restoreAvailability(ctx, courierID); err != nil {
			e.logger.Warn("availability not restored",
				logx.Int64("courier_id", courierID),
				logx.Err(err),
			)
		}
	}

	e.transitioned(ctx, order, reason)
	return nil
}

// updateAssignment applies fn to the latest assignment of the order held by courierID.
// A missing record is logged, not fatal: the order row stays authoritative.
func (e *Engine) updateAssignment(ctx context.Context, orderID, courierID int64, fn func(a *domain.Assignment)) error {
	a, err := e.assignments.LatestForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if a == nil || a.CourierID != courierID {
		e.logger.Warn("assignment record missing",
			logx.Int64("order_id", orderID),
			logx.Int64("courier_id", courierID),
		)
		return nil
	}
	fn(a)
	if err := e.assignments.Save(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (e *Engine) transitioned(ctx context.Context, order *domain.Order, reason string) {
	fields := []logx.Field{
		logx.String("event", "status_changed"),
		logx.Int64("order_id", order.ID),
		logx.String("status", string(order.Status)),
	}
	if order.CourierID != nil {
		fields = append(fields, logx.Int64("courier_id", *order.CourierID))
	}
	e.logger.Info("order status changed", fields...)
	e.metrics.Transition(string(order.Status))
	e.publish(ctx, order, reason)
}

package handlers

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
)

type dispatchUsecase interface {
	AssignAutomatically(ctx context.Context, orderID int64) (domain.AssignResult, error)
	AssignToCourier(ctx context.Context, orderID, courierID int64) (domain.AssignResult, error)
	Accept(ctx context.Context, orderID, courierID int64) (domain.Order, error)
	Reject(ctx context.Context, orderID, courierID int64, reason string) (domain.RejectResult, error)
	AdvanceStatus(ctx context.Context, orderID, courierID int64, next domain.OrderStatus) (domain.Order, error)
	Cancel(ctx context.Context, orderID int64, reason string) (domain.Order, error)
	GetAssignment(ctx context.Context, orderID int64) (domain.Assignment, error)
	AssignmentHistory(ctx context.Context, orderID int64) ([]domain.Assignment, error)
	PendingOrders(ctx context.Context, area string) ([]domain.Order, error)
	AvailableCouriers(area string) ([]int64, error)
}

// NewDispatchUsecase exposes the engine's order operations to the handlers.
func NewDispatchUsecase(e *dispatch.Engine) dispatchUsecase {
	return e
}

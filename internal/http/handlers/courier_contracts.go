package handlers

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
)

//go:generate mockgen -source=courier_contracts.go -destination=courier_mocks_test.go -package=handlers

type courierUsecase interface {
	MarkAvailable(ctx context.Context, courierID int64) error
	MarkUnavailable(ctx context.Context, courierID int64) error
	Heartbeat(courierID int64) bool
	CourierStats(ctx context.Context, courierID int64) (domain.CourierStats, error)
	AssignmentsForCourier(ctx context.Context, courierID int64, status *domain.AssignmentStatus) ([]domain.Assignment, error)
}

// NewCourierUsecase exposes the engine's courier operations to the handlers.
func NewCourierUsecase(e *dispatch.Engine) courierUsecase {
	return e
}

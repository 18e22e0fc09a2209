package dispatch

import (
	"context"
	"fmt"
	"math"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// GetAssignment returns the latest assignment of the order.
func (e *Engine) GetAssignment(ctx context.Context, orderID int64) (domain.Assignment, error) {
	if orderID <= 0 {
		return domain.Assignment{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	a, err := e.assignments.LatestForOrder(ctx, orderID)
	if err != nil {
		return domain.Assignment{}, err
	}
	if a == nil {
		return domain.Assignment{}, fmt.Errorf("assignment of order %d: %w", orderID, apperr.ErrNotFound)
	}
	return *a, nil
}

// AssignmentHistory returns every assignment of the order, oldest first.
func (e *Engine) AssignmentHistory(ctx context.Context, orderID int64) ([]domain.Assignment, error) {
	if orderID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.loadOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return e.assignments.ListForOrder(ctx, orderID)
}

// AssignmentsForCourier lists the courier's assignments, optionally filtered by status.
func (e *Engine) AssignmentsForCourier(ctx context.Context, courierID int64, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	if courierID <= 0 || (status != nil && !status.Valid()) {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	return e.assignments.ListForCourier(ctx, courierID, status)
}

// PendingOrders lists dispatch-ready orders of the area, oldest first.
func (e *Engine) PendingOrders(ctx context.Context, area string) ([]domain.Order, error) {
	area = domain.NormalizeArea(area)
	if area == "" {
		return nil, apperr.ErrInvalidServiceArea
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	return e.orders.FindDispatchReadyOrders(ctx, area)
}

// CourierStats summarises the courier's workload and earnings.
func (e *Engine) CourierStats(ctx context.Context, courierID int64) (domain.CourierStats, error) {
	if courierID <= 0 {
		return domain.CourierStats{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.loadCourier(ctx, courierID); err != nil {
		return domain.CourierStats{}, err
	}
	active, err := e.orders.CountActiveOrdersForCourier(ctx, courierID)
	if err != nil {
		return domain.CourierStats{}, err
	}

	now := e.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total, err := e.orders.CourierEarnings(ctx, courierID, time.Time{})
	if err != nil {
		return domain.CourierStats{}, err
	}
	today, err := e.orders.CourierEarnings(ctx, courierID, startOfDay)
	if err != nil {
		return domain.CourierStats{}, err
	}
	week, err := e.orders.CourierEarnings(ctx, courierID, now.AddDate(0, 0, -7))
	if err != nil {
		return domain.CourierStats{}, err
	}

	stats := domain.CourierStats{
		CourierID:           courierID,
		ActiveOrders:        active,
		CompletedDeliveries: total.Deliveries,
		TotalEarnings:       round2(total.Total),
		TodayDeliveries:     today.Deliveries,
		TodayEarnings:       round2(today.Total),
		WeekDeliveries:      week.Deliveries,
		WeekEarnings:        round2(week.Total),
	}
	if total.Deliveries > 0 {
		stats.AvgEarningsPerDelivery = round2(total.Total / float64(total.Deliveries))
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

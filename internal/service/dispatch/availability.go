package dispatch

import (
	"context"
	"fmt"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// AvailableCouriers lists the couriers currently indexed as available in the area,
// earliest-available first.
func (e *Engine) AvailableCouriers(area string) ([]int64, error) {
	area = domain.NormalizeArea(area)
	if area == "" {
		return nil, apperr.ErrInvalidServiceArea
	}
	ids := e.registry.ListAvailable(area)
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// Heartbeat refreshes the courier's last-seen time and reports whether it is indexed.
func (e *Engine) Heartbeat(courierID int64) bool {
	return e.registry.Heartbeat(courierID)
}

// MarkAvailable puts the courier online. It is indexed only while below capacity.
func (e *Engine) MarkAvailable(ctx context.Context, courierID int64) error {
	if courierID <= 0 {
		return apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.loadCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if !c.CanWork() {
		return fmt.Errorf("courier %d is %s/%s: %w", courierID, c.Verification, c.Account, apperr.ErrCourierIneligible)
	}
	if domain.NormalizeArea(c.ServiceArea) == "" {
		return fmt.Errorf("courier %d: %w", courierID, apperr.ErrInvalidServiceArea)
	}
	if err := e.couriers.SetAvailabilityFlag(ctx, courierID, true); err != nil {
		return err
	}
	if err := e.restoreAvailability(ctx, courierID); err != nil {
		return err
	}

	e.logger.Info("courier online",
		logx.String("event", "courier_online"),
		logx.Int64("courier_id", courierID),
		logx.String("service_area", c.ServiceArea),
	)
	return nil
}

// MarkUnavailable takes the courier offline.
func (e *Engine) MarkUnavailable(ctx context.Context, courierID int64) error {
	if courierID <= 0 {
		return apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.loadCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if err := e.couriers.SetAvailabilityFlag(ctx, courierID, false); err != nil {
		return err
	}

	unlock := e.locks.Lock(courierID)
	e.registry.MarkUnavailable(courierID, domain.NormalizeArea(c.ServiceArea))
	unlock()

	e.logger.Info("courier offline",
		logx.String("event", "courier_offline"),
		logx.Int64("courier_id", courierID),
	)
	return nil
}

// Warm indexes every online courier below capacity and returns how many were indexed.
func (e *Engine) Warm(ctx context.Context) (int, error) {
	couriers, err := e.couriers.ListOnlineCouriers(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, c := range couriers {
		if !c.CanWork() || domain.NormalizeArea(c.ServiceArea) == "" {
			continue
		}
		active, err := e.orders.CountActiveOrdersForCourier(ctx, c.ID)
		if err != nil {
			return indexed, err
		}
		if active < domain.MaxActiveOrders {
			e.registry.MarkAvailable(c.ID, domain.NormalizeArea(c.ServiceArea))
			indexed++
		}
	}

	e.logger.Info("availability registry warmed",
		logx.Int("online", len(couriers)),
		logx.Int("indexed", indexed),
	)
	return indexed, nil
}

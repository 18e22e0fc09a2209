package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/earnings"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/matching"
)

// Assignment modes reported to metrics.
const (
	ModeAuto     = "auto"
	ModeManual   = "manual"
	ModeReassign = "reassign"
)

// Engine matches orders to couriers and drives the order lifecycle.
type Engine struct {
	couriers    courierDirectory
	orders      orderStore
	assignments assignmentStore
	registry    availabilityIndex
	policy      matching.Policy
	calc        calculator
	notifier    Notifier
	metrics     recorder

	locks            *keyedMutex
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewEngine creates a new Engine. Policy, calculator, notifier and metrics fall back to defaults.
func NewEngine(d Deps, timeout time.Duration, logger logx.Logger) *Engine {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	e := &Engine{
		couriers:         d.Couriers,
		orders:           d.Orders,
		assignments:      d.Assignments,
		registry:         d.Registry,
		policy:           d.Policy,
		calc:             d.Calculator,
		notifier:         d.Notifier,
		metrics:          d.Metrics,
		locks:            newKeyedMutex(),
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
	if e.policy == nil {
		e.policy = matching.FirstAvailable{}
	}
	if e.calc == nil {
		e.calc = earnings.Default{}
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.metrics == nil {
		e.metrics = nopRecorder{}
	}
	return e
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.operationTimeout)
}

// AssignAutomatically picks an available courier in the order's area and assigns the order.
func (e *Engine) AssignAutomatically(ctx context.Context, orderID int64) (domain.AssignResult, error) {
	if orderID <= 0 {
		return domain.AssignResult{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	return e.autoAssign(ctx, order, nil, ModeAuto)
}

// AssignToCourier assigns the order to a specific courier.
func (e *Engine) AssignToCourier(ctx context.Context, orderID, courierID int64) (domain.AssignResult, error) {
	if orderID <= 0 || courierID <= 0 {
		return domain.AssignResult{}, apperr.ErrInvalid
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	courier, err := e.loadCourier(ctx, courierID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	if err := checkDispatchable(order); err != nil {
		return domain.AssignResult{}, err
	}
	if !courier.CanWork() || !courier.Serves(order.ServiceArea) {
		return domain.AssignResult{}, fmt.Errorf("courier %d for order %d: %w", courierID, orderID, apperr.ErrCourierIneligible)
	}
	return e.assign(ctx, orderID, *courier, ModeManual)
}

// autoAssign runs the matching policy over eligible couriers of the order's area.
// Couriers in exclude, and couriers that already rejected the order, are skipped.
func (e *Engine) autoAssign(ctx context.Context, order *domain.Order, exclude map[int64]struct{}, mode string) (domain.AssignResult, error) {
	if err := checkDispatchable(order); err != nil {
		return domain.AssignResult{}, err
	}
	area := domain.NormalizeArea(order.ServiceArea)

	rejected, err := e.rejectedBy(ctx, order.ID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	for id := range exclude {
		rejected[id] = struct{}{}
	}

	candidates, couriers, err := e.candidates(ctx, area, rejected)
	if err != nil {
		return domain.AssignResult{}, err
	}

	for len(candidates) > 0 {
		if err := ctx.Err(); err != nil {
			return domain.AssignResult{}, err
		}
		id, ok := e.policy.Select(candidates)
		if !ok {
			break
		}
		courier, known := couriers[id]
		if !known {
			e.logger.Warn("policy selected a non-candidate",
				logx.Int64("order_id", order.ID),
				logx.Int64("courier_id", id),
			)
			break
		}
		res, err := e.assign(ctx, order.ID, courier, mode)
		switch {
		case err == nil:
			return res, nil
		case errors.Is(err, apperr.ErrCapacityExceeded), errors.Is(err, apperr.ErrCourierIneligible):
			e.logger.Debug("candidate lost capacity race",
				logx.Int64("order_id", order.ID),
				logx.Int64("courier_id", id),
			)
			candidates = dropCandidate(candidates, id)
			delete(couriers, id)
		default:
			return domain.AssignResult{}, err
		}
	}
	return domain.AssignResult{}, fmt.Errorf("order %d in area %q: %w", order.ID, area, apperr.ErrNoCourierAvailable)
}

func (e *Engine) candidates(ctx context.Context, area string, exclude map[int64]struct{}) ([]matching.Candidate, map[int64]domain.Courier, error) {
	ids := e.registry.ListAvailable(area)
	out := make([]matching.Candidate, 0, len(ids))
	couriers := make(map[int64]domain.Courier, len(ids))

	for _, id := range ids {
		if _, skip := exclude[id]; skip {
			continue
		}
		c, err := e.couriers.GetCourier(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if c == nil || !c.CanWork() || !c.Serves(area) {
			e.registry.MarkUnavailable(id, area)
			continue
		}
		active, err := e.orders.CountActiveOrdersForCourier(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if active >= domain.MaxActiveOrders {
			continue
		}
		out = append(out, matching.Candidate{Courier: *c, ActiveOrders: active})
		couriers[id] = *c
	}
	return out, couriers, nil
}

// assign performs the capacity-checked write under the courier's lock.
func (e *Engine) assign(ctx context.Context, orderID int64, courier domain.Courier, mode string) (domain.AssignResult, error) {
	unlock := e.locks.Lock(courier.ID)
	defer unlock()

	active, err := e.orders.CountActiveOrdersForCourier(ctx, courier.ID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	if active >= domain.MaxActiveOrders {
		return domain.AssignResult{}, fmt.Errorf("courier %d holds %d orders: %w", courier.ID, active, apperr.ErrCapacityExceeded)
	}

	order, err := e.loadOrder(ctx, orderID)
	if err != nil {
		return domain.AssignResult{}, err
	}
	if err := checkDispatchable(order); err != nil {
		return domain.AssignResult{}, err
	}
	if !courier.Serves(order.ServiceArea) {
		return domain.AssignResult{}, fmt.Errorf("courier %d for order %d: %w", courier.ID, orderID, apperr.ErrCourierIneligible)
	}

	fee, earning := e.calc.Compute(order.Total)
	now := e.now()
	order.Assign(courier.ID, fee, earning, now)
	rec := &domain.Assignment{
		OrderID:    orderID,
		CourierID:  courier.ID,
		Status:     domain.AssignmentAssigned,
		AssignedAt: now,
	}
	if err := e.orders.AssignOrder(ctx, order, rec); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return domain.AssignResult{}, fmt.Errorf("order %d: %w", orderID, apperr.ErrAlreadyAssigned)
		}
		e.logger.Error("assignment not stored",
			logx.Int64("order_id", orderID),
			logx.Int64("courier_id", courier.ID),
			logx.Err(err),
		)
		return domain.AssignResult{}, err
	}

	if active+1 >= domain.MaxActiveOrders {
		e.registry.MarkUnavailable(courier.ID, domain.NormalizeArea(courier.ServiceArea))
	}

	e.metrics.Assigned(mode)
	e.metrics.Transition(string(domain.OrderAssigned))
	e.logger.Info("courier assigned",
		logx.String("event", "courier_assigned"),
		logx.String("mode", mode),
		logx.Int64("order_id", orderID),
		logx.Int64("courier_id", courier.ID),
		logx.Float64("delivery_fee", fee),
		logx.Float64("courier_earning", earning),
	)
	e.publish(ctx, order, "")

	return domain.AssignResult{
		OrderID:        orderID,
		CourierID:      courier.ID,
		DeliveryFee:    fee,
		CourierEarning: earning,
		AssignedAt:     now,
	}, nil
}

func (e *Engine) rejectedBy(ctx context.Context, orderID int64) (map[int64]struct{}, error) {
	history, err := e.assignments.ListForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]struct{})
	for _, a := range history {
		if a.Status == domain.AssignmentRejected {
			out[a.CourierID] = struct{}{}
		}
	}
	return out, nil
}

// restoreAvailability indexes the courier again when it is online and below capacity.
func (e *Engine) restoreAvailability(ctx context.Context, courierID int64) error {
	unlock := e.locks.Lock(courierID)
	defer unlock()

	c, err := e.couriers.GetCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if c == nil || !c.Available || !c.CanWork() || domain.NormalizeArea(c.ServiceArea) == "" {
		return nil
	}
	active, err := e.orders.CountActiveOrdersForCourier(ctx, courierID)
	if err != nil {
		return err
	}
	if active < domain.MaxActiveOrders {
		e.registry.MarkAvailable(c.ID, domain.NormalizeArea(c.ServiceArea))
	}
	return nil
}

func (e *Engine) loadOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := e.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	return o, nil
}

func (e *Engine) loadCourier(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := e.couriers.GetCourier(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

func (e *Engine) publish(ctx context.Context, o *domain.Order, reason string) {
	ev := domain.StatusEvent{
		OrderID:    o.ID,
		Status:     o.Status,
		Reason:     reason,
		OccurredAt: e.now(),
	}
	if o.CourierID != nil {
		id := *o.CourierID
		ev.CourierID = &id
	}
	e.notifier.Notify(context.WithoutCancel(ctx), ev)
}

func checkDispatchable(o *domain.Order) error {
	switch {
	case o.Status.Dispatchable():
	case o.Status.Active():
		return fmt.Errorf("order %d is %s: %w", o.ID, o.Status, apperr.ErrAlreadyAssigned)
	default:
		return fmt.Errorf("order %d is %s: %w", o.ID, o.Status, apperr.ErrInvalidTransition)
	}
	if domain.NormalizeArea(o.ServiceArea) == "" {
		return fmt.Errorf("order %d: %w", o.ID, apperr.ErrInvalidServiceArea)
	}
	return nil
}

func dropCandidate(candidates []matching.Candidate, id int64) []matching.Candidate {
	out := candidates[:0]
	for _, c := range candidates {
		if c.Courier.ID != id {
			out = append(out, c)
		}
	}
	return out
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.StatusEvent) {}

type nopRecorder struct{}

func (nopRecorder) Assigned(string)   {}
func (nopRecorder) Rejected()         {}
func (nopRecorder) Failed()           {}
func (nopRecorder) Transition(string) {}

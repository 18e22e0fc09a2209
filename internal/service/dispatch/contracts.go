package dispatch

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/matching"
)

type courierDirectory interface {
	GetCourier(ctx context.Context, id int64) (*domain.Courier, error)
	SetAvailabilityFlag(ctx context.Context, id int64, available bool) error
	ListOnlineCouriers(ctx context.Context) ([]domain.Courier, error)
}

type orderStore interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	SaveOrder(ctx context.Context, o *domain.Order) error
	AssignOrder(ctx context.Context, o *domain.Order, a *domain.Assignment) error
	CountActiveOrdersForCourier(ctx context.Context, courierID int64) (int, error)
	FindDispatchReadyOrders(ctx context.Context, area string) ([]domain.Order, error)
	FindOrdersByStatus(ctx context.Context, area string, statuses ...domain.OrderStatus) ([]domain.Order, error)
	ReleaseStock(ctx context.Context, orderID int64) error
	CourierEarnings(ctx context.Context, courierID int64, since time.Time) (domain.EarningsSummary, error)
}

type assignmentStore interface {
	Save(ctx context.Context, a *domain.Assignment) error
	LatestForOrder(ctx context.Context, orderID int64) (*domain.Assignment, error)
	ListForOrder(ctx context.Context, orderID int64) ([]domain.Assignment, error)
	ListForCourier(ctx context.Context, courierID int64, status *domain.AssignmentStatus) ([]domain.Assignment, error)
}

type availabilityIndex interface {
	MarkAvailable(courierID int64, area string)
	MarkUnavailable(courierID int64, area string)
	ListAvailable(area string) []int64
	Heartbeat(courierID int64) bool
	Areas() []string
}

type calculator interface {
	Compute(orderTotal float64) (fee, earning float64)
}

// Notifier receives order status events. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, ev domain.StatusEvent)
}

type recorder interface {
	Assigned(mode string)
	Rejected()
	Failed()
	Transition(status string)
}

// Deps are the collaborators of the Engine.
type Deps struct {
	Couriers    courierDirectory
	Orders      orderStore
	Assignments assignmentStore
	Registry    availabilityIndex
	Policy      matching.Policy
	Calculator  calculator
	Notifier    Notifier
	Metrics     recorder
}

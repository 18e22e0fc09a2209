//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"service-dispatch/internal/domain"
)

// Dispatcher abstracts the subset of dispatch engine operations
// needed by orders Processor when handling order events
type Dispatcher interface {
	AssignAutomatically(ctx context.Context, orderID int64) (domain.AssignResult, error)
	Cancel(ctx context.Context, orderID int64, reason string) (domain.Order, error)
}

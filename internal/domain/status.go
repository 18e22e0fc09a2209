package domain

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// List of order statuses
const (
	OrderPlaced           OrderStatus = "PLACED"
	OrderPacked           OrderStatus = "PACKED"
	OrderAssigned         OrderStatus = "ASSIGNED"
	OrderAccepted         OrderStatus = "ACCEPTED"
	OrderPickedUp         OrderStatus = "PICKED_UP"
	OrderOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered        OrderStatus = "DELIVERED"
	OrderRejected         OrderStatus = "REJECTED"
	OrderAssignmentFailed OrderStatus = "ASSIGNMENT_FAILED"
	OrderCancelled        OrderStatus = "CANCELLED"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPlaced, OrderPacked, OrderAssigned, OrderAccepted, OrderPickedUp,
	OrderOutForDelivery, OrderDelivered, OrderRejected, OrderAssignmentFailed, OrderCancelled,
}

// ActiveOrderStatuses occupy courier capacity.
var ActiveOrderStatuses = []OrderStatus{OrderAssigned, OrderAccepted, OrderPickedUp, OrderOutForDelivery}

// forward holds the only transitions a courier may request through AdvanceStatus.
var forward = map[OrderStatus]OrderStatus{
	OrderAccepted:       OrderPickedUp,
	OrderPickedUp:       OrderOutForDelivery,
	OrderOutForDelivery: OrderDelivered,
}

// Valid checks if the OrderStatus is known.
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DispatchReady reports whether a fresh order may be matched (PLACED or PACKED).
func (s OrderStatus) DispatchReady() bool {
	return s == OrderPlaced || s == OrderPacked
}

// Dispatchable reports whether the order may receive a new assignment,
// including re-dispatch after rejection or a failed automatic match.
func (s OrderStatus) Dispatchable() bool {
	return s.DispatchReady() || s == OrderRejected || s == OrderAssignmentFailed
}

// Active reports whether the status counts toward courier capacity.
func (s OrderStatus) Active() bool {
	for _, v := range ActiveOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanAdvanceTo reports whether a courier may move an order from s to next.
// Cancellation is allowed from every non-terminal status.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if next == OrderCancelled {
		return !s.Terminal()
	}
	return forward[s] == next
}

package domain

import "time"

// StatusEvent is published whenever the dispatcher changes an order's status.
type StatusEvent struct {
	OrderID    int64
	CourierID  *int64
	Status     OrderStatus
	Reason     string
	OccurredAt time.Time
}

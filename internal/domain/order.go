package domain

import "time"

// Order is the dispatcher's view of a placed order.
type Order struct {
	ID             int64
	Status         OrderStatus
	ServiceArea    string
	Total          float64
	CourierID      *int64
	DeliveryFee    float64
	CourierEarning float64
	PlacedAt       time.Time
	AssignedAt     *time.Time
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	// Version guards SaveOrder against lost updates.
	Version int64
}

// AssignedTo reports whether the order is held by the courier.
func (o *Order) AssignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// Assign moves a dispatchable order to ASSIGNED and freezes its economics.
func (o *Order) Assign(courierID int64, fee, earning float64, now time.Time) {
	id := courierID
	o.Status = OrderAssigned
	o.CourierID = &id
	o.DeliveryFee = fee
	o.CourierEarning = earning
	o.AssignedAt = &now
}

// Release clears the courier and economics after a rejection.
func (o *Order) Release(status OrderStatus) {
	o.Status = status
	o.CourierID = nil
	o.DeliveryFee = 0
	o.CourierEarning = 0
	o.AssignedAt = nil
}

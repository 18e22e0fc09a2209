package domain

import "time"

// AssignmentStatus is the sub-state of one order ↔ courier link.
type AssignmentStatus string

// List of assignment statuses
const (
	AssignmentAssigned  AssignmentStatus = "ASSIGNED"
	AssignmentAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentRejected  AssignmentStatus = "REJECTED"
	AssignmentPickedUp  AssignmentStatus = "PICKED_UP"
	AssignmentDelivered AssignmentStatus = "DELIVERED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

// Valid checks if the AssignmentStatus is known.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentAccepted, AssignmentRejected,
		AssignmentPickedUp, AssignmentDelivered, AssignmentCancelled:
		return true
	default:
		return false
	}
}

// Assignment is the persisted audit record of an order offered to a courier.
type Assignment struct {
	ID              int64
	OrderID         int64
	CourierID       int64
	Status          AssignmentStatus
	AssignedAt      time.Time
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RejectionReason string
	// DeliveryMinutes is set once the order is delivered.
	DeliveryMinutes *int
}

// DeliveryDuration returns whole minutes from acceptance (or assignment) to delivery.
func (a *Assignment) DeliveryDuration(deliveredAt time.Time) int {
	from := a.AssignedAt
	if a.AcceptedAt != nil {
		from = *a.AcceptedAt
	}
	d := deliveredAt.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// AssignResult - result of assigning an order to a courier.
type AssignResult struct {
	OrderID        int64
	CourierID      int64
	DeliveryFee    float64
	CourierEarning float64
	AssignedAt     time.Time
}

// RejectResult - outcome of a rejection and the reassignment attempt that follows it.
type RejectResult struct {
	OrderID      int64
	Status       OrderStatus
	Reassigned   bool
	NewCourierID int64
}

// CourierStats summarises courier workload and earnings.
type CourierStats struct {
	CourierID              int64
	ActiveOrders           int
	CompletedDeliveries    int
	TotalEarnings          float64
	TodayDeliveries        int
	TodayEarnings          float64
	WeekDeliveries         int
	WeekEarnings           float64
	AvgEarningsPerDelivery float64
}

// EarningsSummary is a count and sum of delivered earnings since a point in time.
type EarningsSummary struct {
	Deliveries int
	Total      float64
}

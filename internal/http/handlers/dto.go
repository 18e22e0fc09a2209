package handlers

import "time"

type assignResponse struct {
	OrderID        int64     `json:"order_id"`
	CourierID      int64     `json:"courier_id"`
	DeliveryFee    float64   `json:"delivery_fee"`
	CourierEarning float64   `json:"courier_earning"`
	AssignedAt     time.Time `json:"assigned_at"`
}

type courierActionRequest struct {
	CourierID int64 `json:"courier_id"`
}

type rejectRequest struct {
	CourierID int64  `json:"courier_id"`
	Reason    string `json:"reason"`
}

type rejectResponse struct {
	OrderID      int64  `json:"order_id"`
	Status       string `json:"status"`
	Reassigned   bool   `json:"reassigned"`
	NewCourierID *int64 `json:"new_courier_id,omitempty"`
}

type statusRequest struct {
	CourierID int64  `json:"courier_id"`
	Status    string `json:"status"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type orderDTO struct {
	ID             int64      `json:"id"`
	Status         string     `json:"status"`
	ServiceArea    string     `json:"service_area"`
	Total          float64    `json:"total"`
	CourierID      *int64     `json:"courier_id,omitempty"`
	DeliveryFee    float64    `json:"delivery_fee"`
	CourierEarning float64    `json:"courier_earning"`
	PlacedAt       time.Time  `json:"placed_at"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt     *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

type assignmentDTO struct {
	ID              int64      `json:"id"`
	OrderID         int64      `json:"order_id"`
	CourierID       int64      `json:"courier_id"`
	Status          string     `json:"status"`
	AssignedAt      time.Time  `json:"assigned_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	PickedUpAt      *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DeliveryMinutes *int       `json:"delivery_minutes,omitempty"`
}

type statsDTO struct {
	CourierID              int64   `json:"courier_id"`
	ActiveOrders           int     `json:"active_orders"`
	CompletedDeliveries    int     `json:"completed_deliveries"`
	TotalEarnings          float64 `json:"total_earnings"`
	TodayDeliveries        int     `json:"today_deliveries"`
	TodayEarnings          float64 `json:"today_earnings"`
	WeekDeliveries         int     `json:"week_deliveries"`
	WeekEarnings           float64 `json:"week_earnings"`
	AvgEarningsPerDelivery float64 `json:"avg_earnings_per_delivery"`
}

type availableCouriersResponse struct {
	ServiceArea string  `json:"service_area"`
	CourierIDs  []int64 `json:"courier_ids"`
}

type heartbeatResponse struct {
	CourierID int64 `json:"courier_id"`
	Indexed   bool  `json:"indexed"`
}

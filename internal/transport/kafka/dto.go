package kafka

import (
	"strings"
	"time"

	"service-dispatch/internal/service/orders"
)

// EventDTO is the wire form of orders.Event
type EventDTO struct {
	OrderID     int64     `json:"order_id"`
	Status      string    `json:"status"`
	ServiceArea string    `json:"service_area"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:     dto.OrderID,
		Status:      strings.TrimSpace(dto.Status),
		ServiceArea: strings.TrimSpace(dto.ServiceArea),
		Reason:      strings.TrimSpace(dto.Reason),
		CreatedAt:   dto.CreatedAt,
	}
}

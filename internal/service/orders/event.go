package orders

import (
	"time"
)

// Event is a single order event
type Event struct {
	OrderID     int64
	Status      string
	ServiceArea string
	Reason      string
	CreatedAt   time.Time
}

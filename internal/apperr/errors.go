package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a concurrent modification lost an optimistic write (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested order, courier or assignment does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a requested status change violates the order state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNotAssignedToCourier is returned when the acting courier does not hold the order.
var ErrNotAssignedToCourier = errors.New("order is not assigned to courier")

// ErrCapacityExceeded is returned when an assignment would exceed the courier capacity.
var ErrCapacityExceeded = errors.New("courier capacity exceeded")

// ErrNoCourierAvailable is returned when no eligible courier exists in the service area.
var ErrNoCourierAvailable = errors.New("no courier available")

// ErrAlreadyAssigned is returned when the order already has a live assignment.
var ErrAlreadyAssigned = errors.New("order already assigned")

// ErrInvalidServiceArea is returned when the order or courier has no service area.
var ErrInvalidServiceArea = errors.New("invalid service area")

// ErrCourierIneligible is returned when the courier is not verified, not active or serves another area.
var ErrCourierIneligible = errors.New("courier is not eligible")

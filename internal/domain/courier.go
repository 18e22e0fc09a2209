package domain

import "strings"

type (
	// VerificationStatus represents the document verification state of a courier.
	VerificationStatus string
	// AccountStatus represents whether the courier account may work.
	AccountStatus string
)

// List of verification statuses
const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
)

// List of account statuses
const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// MaxActiveOrders is the number of active orders a courier may hold at once.
const MaxActiveOrders = 2

// Courier represents a delivery courier as seen by the dispatcher.
type Courier struct {
	ID           int64
	Name         string
	ServiceArea  string
	Verification VerificationStatus
	Account      AccountStatus
	Available    bool
}

// CanWork reports whether the courier may receive orders at all.
func (c Courier) CanWork() bool {
	return c.Verification == VerificationVerified && c.Account == AccountActive
}

// Serves reports whether the courier works in the given service area.
func (c Courier) Serves(area string) bool {
	area = NormalizeArea(area)
	return area != "" && NormalizeArea(c.ServiceArea) == area
}

// NormalizeArea trims the service area code.
func NormalizeArea(area string) string {
	return strings.TrimSpace(area)
}

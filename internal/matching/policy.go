// Package matching selects a courier for an order from the eligible candidates.
package matching

import "service-dispatch/internal/domain"

// Candidate is an eligible courier together with its live workload.
type Candidate struct {
	Courier      domain.Courier
	ActiveOrders int
}

// Policy picks one courier id from a non-empty candidate list.
// Candidates arrive in earliest-available order.
type Policy interface {
	Select(candidates []Candidate) (int64, bool)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func([]Candidate) (int64, bool)

// Select calls f.
func (f PolicyFunc) Select(candidates []Candidate) (int64, bool) { return f(candidates) }

// FirstAvailable picks the courier that has been available the longest.
type FirstAvailable struct{}

// Select returns the first candidate.
func (FirstAvailable) Select(candidates []Candidate) (int64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[0].Courier.ID, true
}

// LeastLoaded picks the candidate with the fewest active orders, ties broken by list order.
type LeastLoaded struct{}

// Select returns the least loaded candidate.
func (LeastLoaded) Select(candidates []Candidate) (int64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.ActiveOrders < best.ActiveOrders {
			best = c
		}
	}
	return best.Courier.ID, true
}

// ByName returns the policy registered under name, defaulting to FirstAvailable.
func ByName(name string) Policy {
	switch name {
	case "least_loaded":
		return LeastLoaded{}
	default:
		return FirstAvailable{}
	}
}

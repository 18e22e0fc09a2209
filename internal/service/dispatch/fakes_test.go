package dispatch

import (
	"context"
	"sort"
	"sync"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// memStore is a thread-safe in-memory courier directory, order store and assignment store.
type memStore struct {
	mu          sync.Mutex
	couriers    map[int64]domain.Courier
	orders      map[int64]domain.Order
	assignments []domain.Assignment
	released    map[int64]int
	nextAssign  int64
	assignErr   error
}

func newMemStore() *memStore {
	return &memStore{
		couriers: make(map[int64]domain.Courier),
		orders:   make(map[int64]domain.Order),
		released: make(map[int64]int),
	}
}

func (m *memStore) putCourier(c domain.Courier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.couriers[c.ID] = c
}

func (m *memStore) putOrder(o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *memStore) order(id int64) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memStore) courier(id int64) domain.Courier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.couriers[id]
}

func (m *memStore) releasedCount(orderID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released[orderID]
}

func (m *memStore) GetCourier(_ context.Context, id int64) (*domain.Courier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.couriers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) SetAvailabilityFlag(_ context.Context, id int64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.couriers[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Available = available
	m.couriers[id] = c
	return nil
}

func (m *memStore) ListOnlineCouriers(_ context.Context) ([]domain.Courier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Courier
	for _, c := range m.couriers {
		if c.Available && c.CanWork() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memStore) SaveOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok || cur.Version != o.Version {
		return apperr.ErrConflict
	}
	o.Version++
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) CountActiveOrdersForCourier(_ context.Context, courierID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.orders {
		if o.AssignedTo(courierID) && o.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindDispatchReadyOrders(ctx context.Context, area string) ([]domain.Order, error) {
	return m.FindOrdersByStatus(ctx, area, domain.OrderPlaced, domain.OrderPacked)
}

func (m *memStore) FindOrdersByStatus(_ context.Context, area string, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.ServiceArea != area {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) ReleaseStock(_ context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released[orderID]++
	return nil
}

func (m *memStore) CourierEarnings(_ context.Context, courierID int64, since time.Time) (domain.EarningsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.EarningsSummary
	for _, o := range m.orders {
		if !o.AssignedTo(courierID) || o.Status != domain.OrderDelivered || o.DeliveredAt == nil {
			continue
		}
		if o.DeliveredAt.Before(since) {
			continue
		}
		s.Deliveries++
		s.Total += o.CourierEarning
	}
	return s, nil
}

func (m *memStore) failAssignments(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignErr = err
}

// AssignOrder writes the order and its record together, or neither.
func (m *memStore) AssignOrder(_ context.Context, o *domain.Order, a *domain.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.orders[o.ID]
	if !ok || cur.Version != o.Version {
		return apperr.ErrConflict
	}
	if m.assignErr != nil {
		return m.assignErr
	}
	o.Version++
	m.orders[o.ID] = *o
	m.nextAssign++
	a.ID = m.nextAssign
	m.assignments = append(m.assignments, *a)
	return nil
}

func (m *memStore) Save(_ context.Context, a *domain.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assignments {
		if m.assignments[i].ID == a.ID {
			m.assignments[i] = *a
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (m *memStore) LatestForOrder(_ context.Context, orderID int64) (*domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.assignments) - 1; i >= 0; i-- {
		if m.assignments[i].OrderID == orderID {
			a := m.assignments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListForOrder(_ context.Context, orderID int64) ([]domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Assignment
	for _, a := range m.assignments {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) ListForCourier(_ context.Context, courierID int64, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Assignment
	for i := len(m.assignments) - 1; i >= 0; i-- {
		a := m.assignments[i]
		if a.CourierID != courierID || (status != nil && a.Status != *status) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.StatusEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev domain.StatusEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) statuses(orderID int64) []domain.OrderStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.OrderStatus
	for _, ev := range n.events {
		if ev.OrderID == orderID {
			out = append(out, ev.Status)
		}
	}
	return out
}

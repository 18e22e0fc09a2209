package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// OrderRepo is the Postgres-backed order store.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, status, service_area, total, courier_id, delivery_fee, courier_earning,
        placed_at, assigned_at, picked_up_at, delivered_at, cancelled_at, version`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Status, &o.ServiceArea, &o.Total, &o.CourierID, &o.DeliveryFee,
		&o.CourierEarning, &o.PlacedAt, &o.AssignedAt, &o.PickedUpAt, &o.DeliveredAt, &o.CancelledAt, &o.Version)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// GetOrder - returns order by its ID, or nil when it does not exist.
func (r *OrderRepo) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

// SaveOrder - writes the dispatch fields if nobody changed the order since it was read.
// On success the order's Version is advanced; a stale version yields apperr.ErrConflict.
func (r *OrderRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if err := saveOrder(ctx, r.db, o); err != nil {
		return err
	}
	o.Version++
	return nil
}

// AssignOrder - saves the assigned order and inserts its assignment record in one transaction.
// Nothing is written when either statement fails.
func (r *OrderRepo) AssignOrder(ctx context.Context, o *domain.Order, a *domain.Assignment) error {
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		if err := saveOrder(ctx, tx, o); err != nil {
			return err
		}
		return insertAssignment(ctx, tx, a)
	})
	if err != nil {
		a.ID = 0
		return err
	}
	o.Version++
	return nil
}

func saveOrder(ctx context.Context, q querier, o *domain.Order) error {
	ct, err := q.Exec(ctx, `
        UPDATE orders
        SET status          = $2,
            courier_id      = $3,
            delivery_fee    = $4,
            courier_earning = $5,
            assigned_at     = $6,
            picked_up_at    = $7,
            delivered_at    = $8,
            cancelled_at    = $9,
            version         = version + 1,
            updated_at      = now()
        WHERE id = $1 AND version = $10
    `, o.ID, string(o.Status), o.CourierID, o.DeliveryFee, o.CourierEarning,
		o.AssignedAt, o.PickedUpAt, o.DeliveredAt, o.CancelledAt, o.Version)
	if err != nil {
		return fmt.Errorf("save order %d: %w", o.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("save order %d at version %d: %w", o.ID, o.Version, apperr.ErrConflict)
	}
	return nil
}

// CountActiveOrdersForCourier - counts orders occupying the courier's capacity.
func (r *OrderRepo) CountActiveOrdersForCourier(ctx context.Context, courierID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM orders
        WHERE courier_id = $1 AND status = ANY($2)
    `, courierID, statusStrings(domain.ActiveOrderStatuses)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active orders of courier %d: %w", courierID, err)
	}
	return n, nil
}

// FindDispatchReadyOrders - returns PLACED/PACKED orders of the area, oldest first.
func (r *OrderRepo) FindDispatchReadyOrders(ctx context.Context, area string) ([]domain.Order, error) {
	return r.FindOrdersByStatus(ctx, area, domain.OrderPlaced, domain.OrderPacked)
}

// FindOrdersByStatus - returns orders of the area in any of the statuses, oldest first.
func (r *OrderRepo) FindOrdersByStatus(ctx context.Context, area string, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE service_area = $1 AND status = ANY($2)
        ORDER BY placed_at, id
    `, area, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("find orders in area %q: %w", area, err)
	}
	return collectOrders(rows)
}

// CourierEarnings - sums earnings of orders the courier delivered at or after since.
func (r *OrderRepo) CourierEarnings(ctx context.Context, courierID int64, since time.Time) (domain.EarningsSummary, error) {
	var s domain.EarningsSummary
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(courier_earning), 0)
        FROM orders
        WHERE courier_id = $1 AND status = $2 AND delivered_at >= $3
    `, courierID, string(domain.OrderDelivered), since).Scan(&s.Deliveries, &s.Total)
	if err != nil {
		return domain.EarningsSummary{}, fmt.Errorf("earnings of courier %d: %w", courierID, err)
	}
	return s, nil
}

// ReleaseStock - returns reserved quantities of a cancelled order to product stock, once.
func (r *OrderRepo) ReleaseStock(ctx context.Context, orderID int64) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
            UPDATE orders SET stock_released = TRUE
            WHERE id = $1 AND NOT stock_released
        `, orderID)
		if err != nil {
			return fmt.Errorf("mark stock released for order %d: %w", orderID, err)
		}
		if ct.RowsAffected() == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `
            UPDATE products p
            SET stock = p.stock + oi.quantity
            FROM order_items oi
            WHERE oi.order_id = $1 AND oi.product_id = p.id
        `, orderID)
		if err != nil {
			return fmt.Errorf("restore stock for order %d: %w", orderID, err)
		}
		return nil
	})
}

// withTx opens a transaction and executes fn within it.
func (r *OrderRepo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

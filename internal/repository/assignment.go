package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// AssignmentRepo persists assignment audit records.
type AssignmentRepo struct{ db *pgxpool.Pool }

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, order_id, courier_id, status, assigned_at, accepted_at, rejected_at,
        picked_up_at, delivered_at, cancelled_at, rejection_reason, delivery_minutes`

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Status, &a.AssignedAt, &a.AcceptedAt,
		&a.RejectedAt, &a.PickedUpAt, &a.DeliveredAt, &a.CancelledAt, &a.RejectionReason, &a.DeliveryMinutes)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	defer rows.Close()
	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Create - inserts a new assignment and fills its ID.
func (r *AssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	return insertAssignment(ctx, r.db, a)
}

func insertAssignment(ctx context.Context, q querier, a *domain.Assignment) error {
	err := q.QueryRow(ctx, `
        INSERT INTO order_assignments (order_id, courier_id, status, assigned_at, rejection_reason)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, a.OrderID, a.CourierID, string(a.Status), a.AssignedAt, a.RejectionReason).Scan(&a.ID)
	if err != nil {
		if IsForeignKey(err) {
			return fmt.Errorf("create assignment for order %d: %w", a.OrderID, apperr.ErrNotFound)
		}
		return fmt.Errorf("create assignment for order %d: %w", a.OrderID, err)
	}
	return nil
}

// Save - overwrites the mutable fields of an assignment.
func (r *AssignmentRepo) Save(ctx context.Context, a *domain.Assignment) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE order_assignments
        SET status           = $2,
            accepted_at      = $3,
            rejected_at      = $4,
            picked_up_at     = $5,
            delivered_at     = $6,
            cancelled_at     = $7,
            rejection_reason = $8,
            delivery_minutes = $9
        WHERE id = $1
    `, a.ID, string(a.Status), a.AcceptedAt, a.RejectedAt, a.PickedUpAt, a.DeliveredAt,
		a.CancelledAt, a.RejectionReason, a.DeliveryMinutes)
	if err != nil {
		return fmt.Errorf("save assignment %d: %w", a.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("assignment %d: %w", a.ID, apperr.ErrNotFound)
	}
	return nil
}

// LatestForOrder - returns the most recent assignment of the order, or nil.
func (r *AssignmentRepo) LatestForOrder(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
        FROM order_assignments
        WHERE order_id = $1
        ORDER BY id DESC
        LIMIT 1
    `, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest assignment of order %d: %w", orderID, err)
	}
	return a, nil
}

// ListForOrder - returns the assignment history of the order, oldest first.
func (r *AssignmentRepo) ListForOrder(ctx context.Context, orderID int64) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+assignmentColumns+`
        FROM order_assignments
        WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list assignments of order %d: %w", orderID, err)
	}
	return collectAssignments(rows)
}

// ListForCourier - returns the courier's assignments, newest first, optionally by status.
func (r *AssignmentRepo) ListForCourier(ctx context.Context, courierID int64, status *domain.AssignmentStatus) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM order_assignments WHERE courier_id = $1`
	args := []any{courierID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments of courier %d: %w", courierID, err)
	}
	return collectAssignments(rows)
}

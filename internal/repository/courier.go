package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// CourierRepo is the Postgres-backed courier directory.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

const courierColumns = `id, name, service_area, verification_status, account_status, is_available`

func scanCourier(row pgx.Row) (*domain.Courier, error) {
	var c domain.Courier
	if err := row.Scan(&c.ID, &c.Name, &c.ServiceArea, &c.Verification, &c.Account, &c.Available); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCourier - returns courier by its ID, or nil when it does not exist.
func (r *CourierRepo) GetCourier(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return c, nil
}

// SetAvailabilityFlag - persists the courier's online intent.
func (r *CourierRepo) SetAvailabilityFlag(ctx context.Context, id int64, available bool) error {
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET is_available = $2, updated_at = now()
        WHERE id = $1
    `, id, available)
	if err != nil {
		return fmt.Errorf("set availability of courier %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("courier %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListOnlineCouriers - returns couriers flagged online that may work, ordered by id.
func (r *CourierRepo) ListOnlineCouriers(ctx context.Context) ([]domain.Courier, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+courierColumns+`
        FROM couriers
        WHERE is_available
          AND verification_status = $1
          AND account_status = $2
        ORDER BY id
    `, string(domain.VerificationVerified), string(domain.AccountActive))
	if err != nil {
		return nil, fmt.Errorf("list online couriers: %w", err)
	}
	defer rows.Close()

	var out []domain.Courier
	for rows.Next() {
		c, err := scanCourier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan courier: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

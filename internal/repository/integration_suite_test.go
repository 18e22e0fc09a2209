//go:build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"service-dispatch/internal/repository"
)

var tcPool *pgxpool.Pool

var tcDSN string

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres testcontainer: %v", err)
	}

	terminate := func(stage string) {
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate container after %s: %v", stage, termErr)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate("conn string error")
		log.Fatalf("failed to get connection string from container: %v", err)
	}

	pool, err := repository.NewPool(ctx, connStr)
	if err != nil {
		terminate("pool error")
		log.Fatalf("failed to connect to postgres in testcontainer: %v", err)
	}

	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		terminate("migrate error")
		log.Fatalf("failed to migrate test database: %v", err)
	}

	tcPool = pool
	tcDSN = connStr

	code := m.Run()

	pool.Close()
	terminate("run")

	os.Exit(code)
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE order_assignments, order_items, orders, products, couriers RESTART IDENTITY CASCADE`)
	return err
}

func seedCourier(ctx context.Context, pool *pgxpool.Pool, name, area string, verified, online bool) (int64, error) {
	verification := "PENDING"
	if verified {
		verification = "VERIFIED"
	}
	var id int64
	err := pool.QueryRow(ctx, `
        INSERT INTO couriers (name, service_area, verification_status, account_status, is_available)
        VALUES ($1, $2, $3, 'ACTIVE', $4)
        RETURNING id
    `, name, area, verification, online).Scan(&id)
	return id, err
}

func seedOrder(ctx context.Context, pool *pgxpool.Pool, area, status string, total float64, placedAt time.Time) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
        INSERT INTO orders (status, service_area, total, placed_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, status, area, total, placedAt).Scan(&id)
	return id, err
}

//go:build integration

package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"service-dispatch/internal/config"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
)

func TestContainer_DispatchLifecycle_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dispatch_db"),
		postgres.WithUsername("u"),
		postgres.WithPassword("p"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.DB = config.DB{Host: host, Port: port.Port(), User: "u", Pass: "p", Name: "dispatch_db"}
	require.Contains(t, cfg.DB.DSN(), net.JoinHostPort(host, port.Port()))

	c, err := NewContainerBuilder().
		WithConfig(func() (*config.Config, error) { return cfg, nil }).
		build(ctx)
	require.NoError(t, err)

	err = c.Invoke(func(pool *pgxpool.Pool, engine *dispatch.Engine) {
		defer pool.Close()

		var courierID, orderID int64
		require.NoError(t, pool.QueryRow(ctx, `
			INSERT INTO couriers (name, service_area, verification_status, account_status, is_available)
			VALUES ('Ravi', '560001', 'VERIFIED', 'ACTIVE', TRUE) RETURNING id`).Scan(&courierID))
		require.NoError(t, pool.QueryRow(ctx, `
			INSERT INTO orders (status, service_area, total) VALUES ('PLACED', '560001', 600) RETURNING id`).Scan(&orderID))

		n, err := engine.Warm(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		res, err := engine.AssignAutomatically(ctx, orderID)
		require.NoError(t, err)
		require.Equal(t, courierID, res.CourierID)
		require.InDelta(t, 42.0, res.DeliveryFee, 1e-9)

		_, err = engine.Accept(ctx, orderID, courierID)
		require.NoError(t, err)
		for _, s := range []domain.OrderStatus{domain.OrderPickedUp, domain.OrderOutForDelivery, domain.OrderDelivered} {
			_, err = engine.AdvanceStatus(ctx, orderID, courierID, s)
			require.NoError(t, err)
		}

		a, err := engine.GetAssignment(ctx, orderID)
		require.NoError(t, err)
		require.Equal(t, domain.AssignmentDelivered, a.Status)
		require.NotNil(t, a.DeliveryMinutes)

		stats, err := engine.CourierStats(ctx, courierID)
		require.NoError(t, err)
		require.Equal(t, 1, stats.CompletedDeliveries)
		require.Equal(t, 0, stats.ActiveOrders)
		require.InDelta(t, 43.6, stats.TotalEarnings, 1e-9)
	})
	require.NoError(t, err)
}

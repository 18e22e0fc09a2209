package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"service-dispatch/internal/jobs"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

type warmer interface {
	Warm(ctx context.Context) (int, error)
}

// Runner runs the service from a built container.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun runs the service and exits the process on an unexpected error.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		_ = logger.Sync()
		panic(err)
	}
}

type runIn struct {
	dig.In

	Ctx       context.Context
	Logger    logx.Logger
	Server    *http.Server
	Pool      *pgxpool.Pool
	Warmer    warmer
	Consumer  *kafka.Consumer
	Sink      *statusSink
	Scheduler *jobs.Scheduler
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

// appRun warms the registry, then runs the HTTP server, the orders consumer,
// the notification queue and the scheduler until ctx is done or one of them fails.
func appRun(in runIn) error {
	logger := in.Logger
	defer closeResources(in, logger)

	n, err := in.Warmer.Warm(in.Ctx)
	if err != nil {
		// the registry refills as couriers go online
		logger.Error("availability warm-up failed", logx.Err(err))
	} else {
		logger.Info("availability warmed up", logx.Int("couriers", n))
	}

	g, gctx := errgroup.WithContext(in.Ctx)

	g.Go(func() error {
		logger.Info("service-dispatch listening", logx.String("addr", in.Server.Addr))
		if err := in.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down service-dispatch")
		gracefulShutdown(in.Server, logger, shutdownTimeout)
		return nil
	})
	if in.Consumer != nil {
		g.Go(func() error { return in.Consumer.Run(gctx) })
	}
	if in.Sink != nil && in.Sink.Queue != nil {
		g.Go(func() error { return in.Sink.Queue.Run(gctx) })
	}
	if in.Scheduler != nil {
		g.Go(func() error { return in.Scheduler.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return in.Ctx.Err()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in runIn, logger logx.Logger) {
	if in.Consumer != nil {
		if err := in.Consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", logx.Err(err))
		}
	}
	if err := in.Sink.Close(); err != nil {
		logger.Error("kafka producer close error", logx.Err(err))
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
	_ = logger.Sync()
}

package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"service-dispatch/internal/availability"
	"service-dispatch/internal/config"
	"service-dispatch/internal/earnings"
	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/jobs"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/matching"
	"service-dispatch/internal/metrics"
	"service-dispatch/internal/notify"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/transport/kafka"
)

type (
	dbConnectFunc   func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)
	migrateFunc     func(context.Context, *pgxpool.Pool) error
	newProducerFunc func([]string) (sarama.SyncProducer, error)
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect   dbConnectFunc
	migrate     migrateFunc
	newProducer newProducerFunc
	loadConfig  func() (*config.Config, error)
	logFatalf   func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:   connectDbWithRetry,
		migrate:     repository.Migrate,
		newProducer: notify.NewSyncProducer,
		loadConfig:  config.Load,
		logFatalf:   log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithMigrate sets the schema migration function
func (b *ContainerBuilder) WithMigrate(fn migrateFunc) *ContainerBuilder {
	if fn != nil {
		b.migrate = fn
	}
	return b
}

// WithProducer sets the Kafka producer constructor
func (b *ContainerBuilder) WithProducer(fn newProducerFunc) *ContainerBuilder {
	if fn != nil {
		b.newProducer = fn
	}
	return b
}

// WithConfig sets the configuration loader
func (b *ContainerBuilder) WithConfig(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	steps := []struct {
		name string
		fn   func(*dig.Container) error
	}{
		{"core", func(c *dig.Container) error { return registerCore(c, ctx, b.loadConfig) }},
		{"metrics", registerMetrics},
		{"db", func(c *dig.Container) error { return registerDB(c, b.dbConnect, b.migrate) }},
		{"dispatch", registerDispatch},
		{"notify", func(c *dig.Container) error { return registerNotify(c, b.newProducer) }},
		{"kafka", registerKafka},
		{"jobs", registerJobs},
		{"http", registerHTTP},
	}
	for _, s := range steps {
		if err := s.fn(container); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		func() availability.Clock { return availability.RealClock{} },
		func() *prometheus.Registry {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			return reg
		},
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
	)
}

type metricsOut struct {
	dig.Out

	RateLimited prometheus.Counter `name:"rate_limit_exceeded_total"`
	Retries     prometheus.Counter `name:"notifier_retries_total"`
	Dropped     prometheus.Counter `name:"notifier_dropped_total"`
	Evictions   prometheus.Counter `name:"registry_evictions_total"`
	Dispatch    *metrics.Dispatch
}

func newMetrics(reg prometheus.Registerer) (metricsOut, error) {
	out := metricsOut{
		RateLimited: metrics.NewRateLimitExceededTotal(),
		Retries:     metrics.NewNotifierRetriesTotal(),
		Dropped:     metrics.NewNotifierDroppedTotal(),
		Evictions:   metrics.NewRegistryEvictionsTotal(),
		Dispatch:    metrics.NewDispatch(),
	}
	cs := append([]prometheus.Collector{out.RateLimited, out.Retries, out.Dropped, out.Evictions}, out.Dispatch.Collectors()...)
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, err
		}
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, newMetrics)
}

func registerDB(container *dig.Container, dbConnect dbConnectFunc, migrate migrateFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pool, nil
	}
	return provideAll(container,
		providerDB,
		repository.NewCourierRepo,
		repository.NewOrderRepo,
		repository.NewAssignmentRepo,
	)
}

func newRegistry(cfg *config.Config, clock availability.Clock, reg prometheus.Registerer) (*availability.Registry, error) {
	r := availability.NewRegistry(clock, cfg.Dispatch.StaleAfter)
	if err := reg.Register(metrics.NewRegistrySize(r.Size)); err != nil {
		return nil, err
	}
	return r, nil
}

type engineIn struct {
	dig.In

	Config      *config.Config
	Logger      logx.Logger
	Couriers    *repository.CourierRepo
	Orders      *repository.OrderRepo
	Assignments *repository.AssignmentRepo
	Registry    *availability.Registry
	Notifier    dispatch.Notifier
	Metrics     *metrics.Dispatch
}

func newEngine(in engineIn) *dispatch.Engine {
	return dispatch.NewEngine(dispatch.Deps{
		Couriers:    in.Couriers,
		Orders:      in.Orders,
		Assignments: in.Assignments,
		Registry:    in.Registry,
		Policy:      matching.ByName(in.Config.Dispatch.Policy),
		Calculator:  earnings.Default{},
		Notifier:    in.Notifier,
		Metrics:     in.Metrics,
	}, in.Config.Dispatch.OperationTimeout, in.Logger)
}

func registerDispatch(container *dig.Container) error {
	return provideAll(container,
		newRegistry,
		newEngine,
		func(e *dispatch.Engine) warmer { return e },
	)
}

// statusSink is the engine's notifier plus what the runner has to drive and close.
// Queue is nil when Kafka is not configured.
type statusSink struct {
	Notifier dispatch.Notifier
	Queue    *notify.Queue
	close    func() error
}

// Close releases the producer.
func (s *statusSink) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

type notifyIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notifier_retries_total"`
	Dropped prometheus.Counter `name:"notifier_dropped_total"`
}

func newStatusSink(in notifyIn, newProducer newProducerFunc) (*statusSink, error) {
	k := in.Config.Kafka
	if len(k.Brokers) == 0 || k.StatusTopic == "" {
		in.Logger.Info("status notifications disabled: kafka not configured")
		return &statusSink{Notifier: notify.Nop{}}, nil
	}

	producer, err := newProducer(k.Brokers)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	logger := in.Logger.With(logx.String("component", "notifier"))
	n := in.Config.Notify
	retrying := notify.NewRetryingPublisher(notify.NewKafkaPublisher(producer, k.StatusTopic), logger, in.Retries, notify.RetryConfig{
		MaxAttempts: n.MaxAttempts,
		BaseDelay:   n.BaseDelay,
		MaxDelay:    n.MaxDelay,
	})
	q := notify.NewQueue(retrying, notify.DefaultQueueSize, logger, in.Dropped)
	return &statusSink{Notifier: q, Queue: q, close: producer.Close}, nil
}

func registerNotify(container *dig.Container, newProducer newProducerFunc) error {
	return provideAll(container,
		func(in notifyIn) (*statusSink, error) { return newStatusSink(in, newProducer) },
		func(s *statusSink) dispatch.Notifier { return s.Notifier },
	)
}

func newOrdersConsumer(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
	k := cfg.Kafka
	c, err := kafka.NewConsumer(logger.With(logx.String("component", "orders-consumer")), k.Brokers, k.GroupID, k.OrdersTopic, makeOrdersHandler(p))
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	if c == nil {
		logger.Info("orders consumer disabled: kafka not configured")
	}
	return c, nil
}

func registerKafka(container *dig.Container) error {
	return provideAll(container,
		func(e *dispatch.Engine) orders.Dispatcher { return e },
		orders.NewProcessor,
		newOrdersConsumer,
	)
}

type schedulerIn struct {
	dig.In

	Config    *config.Config
	Logger    logx.Logger
	Registry  *availability.Registry
	Engine    *dispatch.Engine
	Evictions prometheus.Counter `name:"registry_evictions_total"`
}

func newScheduler(in schedulerIn) (*jobs.Scheduler, error) {
	return jobs.NewScheduler(jobs.Schedules{
		Sweep:        in.Config.Dispatch.SweepSchedule,
		DispatchPass: in.Config.Dispatch.PassSchedule,
	}, in.Registry, in.Engine, in.Evictions, in.Logger)
}

func registerJobs(container *dig.Container) error {
	return provideAll(container, newScheduler)
}

func newRateLimiter(cfg *config.Config, clock availability.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

type rateLimitIn struct {
	dig.In

	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter, ratelimit.ByCourier)
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		handlers.NewCourierUsecase,
		handlers.NewCourierHandler,
		middleware.NewHTTPMetrics,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		newServer,
	)
}

package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"service-dispatch/internal/logx"
)

type sweeper interface {
	Sweep() int
}

type dispatcher interface {
	DispatchPass(ctx context.Context) (int, error)
}

type counter interface {
	Add(float64)
}

// Schedules holds cron specs for the background jobs. An empty spec disables the job.
type Schedules struct {
	Sweep        string
	DispatchPass string
}

// Scheduler runs the registry sweep and the periodic dispatch pass.
type Scheduler struct {
	cron      *cron.Cron
	registry  sweeper
	engine    dispatcher
	evictions counter
	logger    logx.Logger
	ctx       context.Context
}

// NewScheduler creates a Scheduler and registers its jobs.
func NewScheduler(s Schedules, registry sweeper, engine dispatcher, evictions counter, logger logx.Logger) (*Scheduler, error) {
	sch := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		registry:  registry,
		engine:    engine,
		evictions: evictions,
		logger:    logger.With(logx.String("component", "scheduler")),
		ctx:       context.Background(),
	}
	if s.Sweep != "" {
		if _, err := sch.cron.AddFunc(s.Sweep, sch.sweep); err != nil {
			return nil, fmt.Errorf("schedule sweep %q: %w", s.Sweep, err)
		}
	}
	if s.DispatchPass != "" {
		if _, err := sch.cron.AddFunc(s.DispatchPass, sch.dispatchPass); err != nil {
			return nil, fmt.Errorf("schedule dispatch pass %q: %w", s.DispatchPass, err)
		}
	}
	return sch, nil
}

// Run starts the jobs and blocks until ctx is done, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", logx.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) sweep() {
	n := s.registry.Sweep()
	if n == 0 {
		return
	}
	if s.evictions != nil {
		s.evictions.Add(float64(n))
	}
	s.logger.Info("stale couriers evicted", logx.Int("count", n))
}

func (s *Scheduler) dispatchPass() {
	if s.ctx.Err() != nil {
		return
	}
	if _, err := s.engine.DispatchPass(s.ctx); err != nil && s.ctx.Err() == nil {
		s.logger.Error("dispatch pass failed", logx.Err(err))
	}
}

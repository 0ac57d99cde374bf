package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentdesk/internal/logger"

	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // 02:00 UTC, before the workday starts
)

// Job is a background task the scheduler runs on its Schedule. Execute
// receives the scheduler's context for cancellation on shutdown.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) runJob(job Job, log logger.Logger) {
	log.Info("Running job", "job", job.Name())
	if err := job.Execute(s.ctx); err != nil {
		_ = log.Err("job failed", err, "job", job.Name())
		return
	}
	log.Info("Job finished", "job", job.Name())
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("02:00").Do(func() {
			s.runJob(job, log)
		})
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(func() {
			s.runJob(job, log)
		})
	}
	if err != nil {
		return log.Err("failed to register job", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered", "job", job.Name())

	return nil
}

// Start is a no-op when no jobs are registered, so deployments with the
// scheduler disabled cost nothing.
func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started || len(s.jobs) == 0 {
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, scheduled := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", scheduled.NextRun())
	}

	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJob runs a registered job immediately, outside its schedule.
// Used by operational tooling to force an escalation sweep.
func (s *SchedulerService) TriggerJob(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("TriggerJob")

	for _, job := range s.jobs {
		if job.Name() != name {
			continue
		}
		go func(j Job) {
			log.Info("Manually triggering job", "job", name)
			if err := j.Execute(ctx); err != nil {
				_ = log.Err("manual job run failed", err, "job", name)
			}
		}(job)
		return nil
	}

	return log.Err("job not found", fmt.Errorf("no job named %s", name), "job", name)
}

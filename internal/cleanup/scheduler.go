package cleanup

import (
	"context"
	"log"

	"inmobiliaria-backend/internal/config"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the orphan sweep on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	service   *Service
	config    config.CleanupConfig
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(service *Service, cfg config.CleanupConfig) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		config:  cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		log.Println("[cleanup] scheduler disabled in configuration")
		return nil
	}

	spec := s.config.Schedule
	if spec == "" {
		spec = "0 3 * * *"
	}

	_, err := s.cron.AddFunc(spec, func() {
		log.Println("[cleanup] starting scheduled sweep")
		if _, err := s.RunNow(context.Background()); err != nil {
			log.Printf("[cleanup] scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("[cleanup] scheduler started cron=%q dry_run=%v", spec, s.config.DryRun)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("[cleanup] scheduler stopped")
	}
}

// RunNow immediately executes a sweep (for manual trigger).
func (s *Scheduler) RunNow(ctx context.Context) (*CleanupResult, error) {
	cfg := DefaultCleanupConfig()
	if s.config.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = s.config.MaxDeletionCount
	}
	cfg.DryRun = s.config.DryRun
	return s.service.Sweep(ctx, cfg)
}

package reminder

import (
	"context"
	"time"
)

// SchedulerConfig sets when the daily reminder run happens.
type SchedulerConfig struct {
	// Hour is the local hour (0-23) of the daily run.
	Hour int
	// CheckInterval is how often the loop looks at the clock.
	CheckInterval time.Duration
}

// DefaultSchedulerConfig runs reminders at 10:00 local time.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Hour: 10, CheckInterval: time.Minute}
}

// Scheduler triggers one reminder run per day at the configured hour.
type Scheduler struct {
	cfg     SchedulerConfig
	service *Service
	lastRun string // YYYY-MM-DD of the last completed run
}

// NewScheduler constructs a scheduler around the service.
func NewScheduler(cfg SchedulerConfig, service *Service) *Scheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return &Scheduler{cfg: cfg, service: service}
}

// Start blocks until ctx is cancelled, running the service once per day.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.service.now()
	today := now.Format("2006-01-02")
	if s.lastRun == today || now.Hour() != s.cfg.Hour {
		return
	}
	s.lastRun = today
	s.service.RunOnce(ctx)
}

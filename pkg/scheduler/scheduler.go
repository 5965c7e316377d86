package scheduler

import (
	"os"

	"github.com/robfig/cron/v3"

	"github.com/chess-tournament-radar/backend/pkg/logger"
)

type Config struct {
	Enabled  bool
	CronSpec string // e.g. "0 6 * * *" (server local time)
}

// FromEnv reads the scheduler configuration from CTR_SCHEDULER_* variables.
func FromEnv() Config {
	return Config{
		Enabled:  os.Getenv("CTR_SCHEDULER_ENABLED") == "true" || os.Getenv("CTR_SCHEDULER_ENABLED") == "1",
		CronSpec: firstNonEmpty(os.Getenv("CTR_SCHEDULER_CRON"), "0 6 * * *"),
	}
}

// Scheduler runs the daily forced feed refresh. The job is injected so this
// package stays decoupled from the service wiring.
type Scheduler struct {
	c      *cron.Cron
	config Config
	job    func()
}

func New(cfg Config, job func()) (*Scheduler, error) {
	s := &Scheduler{
		c:      cron.New(), // standard 5-field spec, runs in server local time
		config: cfg,
		job:    job,
	}
	_, err := s.c.AddFunc(cfg.CronSpec, func() {
		logger.Info("Scheduler tick: forcing feed refresh")
		job()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	logger.Info("Starting scheduler (cron=%s)", s.config.CronSpec)
	s.c.Start()
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}

// Reload updates the scheduler configuration from environment variables and
// restarts the cron loop if anything changed.
func (s *Scheduler) Reload() error {
	newConfig := FromEnv()

	if s.config == newConfig {
		logger.Info("Scheduler configuration unchanged, no restart needed")
		return nil
	}

	s.c.Stop()
	logger.Info("Stopped scheduler for configuration reload")

	s.config = newConfig
	s.c = cron.New()
	if newConfig.Enabled {
		_, err := s.c.AddFunc(newConfig.CronSpec, func() {
			logger.Info("Scheduler tick: forcing feed refresh")
			s.job()
		})
		if err != nil {
			return err
		}
		s.c.Start()
		logger.Info("Scheduler restarted with new configuration (cron=%s)", newConfig.CronSpec)
	} else {
		logger.Info("Scheduler disabled via configuration reload")
	}

	return nil
}

// GetConfig returns the current scheduler configuration
func (s *Scheduler) GetConfig() Config {
	return s.config
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package reminder

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/td0m/taskboard/pkg/notify"
	"github.com/td0m/taskboard/pkg/task"
)

const DefaultInterval = time.Minute

type Source interface {
	Snapshot() task.Snapshot
}

// Scheduler runs the checker against the store on a fixed interval
type Scheduler struct {
	source   Source
	checker  *Checker
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger

	// OnTick is called after every check with the tasks that were notified
	OnTick func(sent []task.Task)
}

func NewScheduler(src Source, n notify.Notifier, interval, window time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		source:   src,
		checker:  NewChecker(n, window, logger),
		notifier: n,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Tick runs a single check
func (s *Scheduler) Tick() []task.Task {
	sent := s.checker.Check(s.source.Snapshot().Tasks(), s.now())
	if s.OnTick != nil {
		s.OnTick(sent)
	}
	return sent
}

// Run requests notification permission if it was never asked for, then
// checks every interval until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	if s.notifier.Permission() == notify.Default {
		s.notifier.RequestPermission()
	}
	s.logger.Info("reminder scheduler started", "interval", s.interval, "permission", s.notifier.Permission())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

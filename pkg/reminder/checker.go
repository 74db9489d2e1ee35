package reminder

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/td0m/taskboard/pkg/notify"
	"github.com/td0m/taskboard/pkg/task"
)

// Checker notifies about due-soon tasks, at most once per reminder.
// Setting a different reminder on a task arms it again.
type Checker struct {
	notifier notify.Notifier
	window   time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	fired map[task.ID]time.Time
}

func NewChecker(n notify.Notifier, window time.Duration, logger *log.Logger) *Checker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Checker{
		notifier: n,
		window:   window,
		logger:   logger,
		fired:    map[task.ID]time.Time{},
	}
}

// Check evaluates every task and returns the ones a notification was sent for.
// Nothing is sent, and nothing is remembered, unless permission was granted.
func (c *Checker) Check(tasks []task.Task, now time.Time) []task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(tasks)
	if c.notifier.Permission() != notify.Granted {
		return nil
	}
	sent := []task.Task{}
	for _, t := range DueSoon(tasks, now, c.window) {
		if at, ok := c.fired[t.ID]; ok && at.Equal(*t.Reminder) {
			continue
		}
		c.fired[t.ID] = *t.Reminder
		c.notifier.Notify(notify.Notification{
			Title: "Task Reminder: " + t.Title,
			Body:  "This task is due at " + t.Reminder.Format("15:04"),
		})
		c.logger.Debug("reminder sent", "task", t.ID, "reminder", *t.Reminder)
		sent = append(sent, t)
	}
	return sent
}

// prune forgets tasks that were deleted or whose reminder was cleared
func (c *Checker) prune(tasks []task.Task) {
	if len(c.fired) == 0 {
		return
	}
	alive := make(map[task.ID]bool, len(tasks))
	for _, t := range tasks {
		if t.Reminder != nil {
			alive[t.ID] = true
		}
	}
	for id := range c.fired {
		if !alive[id] {
			delete(c.fired, id)
		}
	}
}

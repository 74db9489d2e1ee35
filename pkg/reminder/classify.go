// Package reminder classifies tasks by their reminder timestamp and
// notifies about the ones that are due soon.
package reminder

import (
	"time"

	"github.com/td0m/taskboard/pkg/task"
)

// DefaultWindow is how far ahead a reminder counts as due soon
const DefaultWindow = 5 * time.Minute

type State int

const (
	None State = iota
	Overdue
	Upcoming
)

func (s State) String() string {
	switch s {
	case Overdue:
		return "overdue"
	case Upcoming:
		return "upcoming"
	default:
		return "none"
	}
}

// Classify reports whether an incomplete task's reminder has passed.
// Completed tasks, tasks without a reminder and reminders exactly at now are None.
func Classify(t task.Task, now time.Time) State {
	if t.Reminder == nil || t.Completed {
		return None
	}
	switch {
	case t.Reminder.Before(now):
		return Overdue
	case t.Reminder.After(now):
		return Upcoming
	}
	return None
}

func IsOverdue(t task.Task, now time.Time) bool {
	return Classify(t, now) == Overdue
}

func IsUpcoming(t task.Task, now time.Time) bool {
	return Classify(t, now) == Upcoming
}

// IsDueSoon holds when 0 < reminder - now <= window
func IsDueSoon(t task.Task, now time.Time, window time.Duration) bool {
	if !IsUpcoming(t, now) {
		return false
	}
	return t.Reminder.Sub(now) <= window
}

func Overdue(tasks []task.Task, now time.Time) []task.Task {
	return filter(tasks, func(t task.Task) bool { return IsOverdue(t, now) })
}

func Upcoming(tasks []task.Task, now time.Time) []task.Task {
	return filter(tasks, func(t task.Task) bool { return IsUpcoming(t, now) })
}

func DueSoon(tasks []task.Task, now time.Time, window time.Duration) []task.Task {
	return filter(tasks, func(t task.Task) bool { return IsDueSoon(t, now, window) })
}

func filter(tasks []task.Task, keep func(task.Task) bool) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

package reminder

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"
	"github.com/td0m/taskboard/pkg/notify"
	"github.com/td0m/taskboard/pkg/task"
)

var now = time.Date(2024, time.April, 17, 10, 0, 0, 0, time.UTC)

func withReminder(id task.ID, at time.Time) task.Task {
	return task.Task{ID: id, Title: string(id), Reminder: &at}
}

// recorder is a notifier that remembers what it was asked to show
type recorder struct {
	mu    sync.Mutex
	perm  notify.Permission
	shown []notify.Notification
}

func (r *recorder) Permission() notify.Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perm
}

func (r *recorder) RequestPermission() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perm = notify.Granted
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown)
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func TestClassify(t *testing.T) {
	done := withReminder("done", now.Add(-time.Hour))
	done.Completed = true

	tests := []struct {
		name    string
		task    task.Task
		state   State
		dueSoon bool
	}{
		{"no reminder", task.Task{ID: "x"}, None, false},
		{"completed", done, None, false},
		{"past", withReminder("p", now.Add(-time.Minute)), Overdue, false},
		{"exactly now", withReminder("n", now), None, false},
		{"in 3 minutes", withReminder("s", now.Add(3*time.Minute)), Upcoming, true},
		{"at the window edge", withReminder("e", now.Add(5*time.Minute)), Upcoming, true},
		{"past the window", withReminder("l", now.Add(5*time.Minute+time.Second)), Upcoming, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(Classify(tt.task, now), tt.state)
			is.Equal(IsDueSoon(tt.task, now, DefaultWindow), tt.dueSoon)
		})
	}
}

func TestDueSoon_ClockAdvances(t *testing.T) {
	is := is.New(t)
	tk := withReminder("a", now.Add(3*time.Minute))

	is.True(IsDueSoon(tk, now, DefaultWindow))
	is.True(!IsOverdue(tk, now))

	for _, later := range []time.Duration{4 * time.Minute, time.Hour, 48 * time.Hour} {
		is.True(IsOverdue(tk, now.Add(later)))
		is.True(!IsDueSoon(tk, now.Add(later), DefaultWindow))
	}
}

func TestLists(t *testing.T) {
	is := is.New(t)
	tasks := []task.Task{
		withReminder("past", now.Add(-time.Hour)),
		withReminder("soon", now.Add(time.Minute)),
		withReminder("later", now.Add(time.Hour)),
		{ID: "none"},
	}
	ids := func(ts []task.Task) []task.ID {
		out := []task.ID{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	is.Equal(ids(Overdue(tasks, now)), []task.ID{"past"})
	is.Equal(ids(Upcoming(tasks, now)), []task.ID{"soon", "later"})
	is.Equal(ids(DueSoon(tasks, now, DefaultWindow)), []task.ID{"soon"})
}

func TestChecker(t *testing.T) {
	t.Run("does nothing without permission", func(t *testing.T) {
		is := is.New(t)
		r := &recorder{}
		c := NewChecker(r, DefaultWindow, quiet())
		sent := c.Check([]task.Task{withReminder("a", now.Add(time.Minute))}, now)
		is.Equal(len(sent), 0)
		is.Equal(r.count(), 0)
	})

	t.Run("fires once per reminder", func(t *testing.T) {
		is := is.New(t)
		r := &recorder{perm: notify.Granted}
		c := NewChecker(r, DefaultWindow, quiet())
		a := withReminder("a", now.Add(4*time.Minute))
		tasks := []task.Task{a}

		is.Equal(len(c.Check(tasks, now)), 1)
		is.Equal(len(c.Check(tasks, now.Add(time.Minute))), 0)
		is.Equal(len(c.Check(tasks, now.Add(2*time.Minute))), 0)
		is.Equal(r.count(), 1)
		is.Equal(r.shown[0].Title, "Task Reminder: a")
	})

	t.Run("a new reminder re-arms the task", func(t *testing.T) {
		is := is.New(t)
		r := &recorder{perm: notify.Granted}
		c := NewChecker(r, DefaultWindow, quiet())
		c.Check([]task.Task{withReminder("a", now.Add(time.Minute))}, now)
		c.Check([]task.Task{withReminder("a", now.Add(2*time.Minute))}, now)
		is.Equal(r.count(), 2)
	})

	t.Run("forgets deleted tasks", func(t *testing.T) {
		is := is.New(t)
		r := &recorder{perm: notify.Granted}
		c := NewChecker(r, DefaultWindow, quiet())
		c.Check([]task.Task{withReminder("a", now.Add(time.Minute))}, now)
		c.Check(nil, now)
		is.Equal(len(c.fired), 0)
	})

	t.Run("ignores completed tasks", func(t *testing.T) {
		is := is.New(t)
		r := &recorder{perm: notify.Granted}
		c := NewChecker(r, DefaultWindow, quiet())
		a := withReminder("a", now.Add(time.Minute))
		a.Completed = true
		c.Check([]task.Task{a}, now)
		is.Equal(r.count(), 0)
	})
}

func TestScheduler(t *testing.T) {
	t.Run("tick reads the store", func(t *testing.T) {
		is := is.New(t)
		store := task.NewStore(task.WithClock(func() time.Time { return now }))
		_, err := store.Create("call mum", task.WithReminder(now.Add(2*time.Minute)))
		is.NoErr(err)

		r := &recorder{perm: notify.Granted}
		s := NewScheduler(store, r, time.Minute, DefaultWindow, quiet())
		s.now = func() time.Time { return now }
		var ticks int
		s.OnTick = func([]task.Task) { ticks++ }

		is.Equal(len(s.Tick()), 1)
		is.Equal(len(s.Tick()), 0)
		is.Equal(ticks, 2)
		is.Equal(r.shown[0].Title, "Task Reminder: call mum")
	})

	t.Run("run requests permission and stops on cancel", func(t *testing.T) {
		is := is.New(t)
		store := task.NewStore()
		_, err := store.Create("soon", task.WithReminder(time.Now().Add(time.Minute)))
		is.NoErr(err)

		r := &recorder{}
		s := NewScheduler(store, r, 10*time.Millisecond, DefaultWindow, quiet())
		fired := make(chan struct{}, 1)
		s.OnTick = func(sent []task.Task) {
			if len(sent) > 0 {
				fired <- struct{}{}
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler never notified")
		}
		cancel()
		is.Equal(<-done, context.Canceled)
		is.Equal(r.Permission(), notify.Granted)
		is.Equal(r.count(), 1)
	})
}

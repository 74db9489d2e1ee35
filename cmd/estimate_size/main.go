package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/td0m/taskboard/pkg/task"
)

var (
	total   = flag.Int("tasks", 5000, "Number of tasks to create")
	fanout  = flag.Int("fanout", 20, "Children per parent")
	lookups = flag.Int("lookups", 1000, "Child lookups to time")
)

func main() {
	flag.Parse()
	per := max(*fanout, 1)
	count := max(*total, 1)

	// sequential ids keep the probe independent of uuid generation
	n := 0
	store := task.NewStore(task.WithIDs(func() task.ID {
		n++
		return task.ID(fmt.Sprintf("t%d", n))
	}))

	tags := []string{"uni", "work", "goals", "chores", "social", "other"}
	ids := make([]task.ID, 0, count)
	createTime := measureTime(func() {
		for i := 0; i < count; i++ {
			opts := []task.CreateOption{}
			if i >= per {
				opts = append(opts, task.WithParent(ids[i/per-1]))
			}
			t, err := store.Create(fmt.Sprintf("task %d", i), opts...)
			check(err)
			ids = append(ids, t.ID)
			if i%3 == 0 {
				check(store.AddTag(t.ID, tags[rand.Intn(len(tags))]))
			}
			if i%2 == 0 {
				check(store.Toggle(t.ID))
			}
		}
	})

	snap := store.Snapshot()
	tasks := snap.Tasks()
	probe := make([]task.ID, *lookups)
	for i := range probe {
		probe[i] = ids[rand.Intn(len(ids))]
	}

	indexTime := measureTime(func() {
		for _, id := range probe {
			snap.Children(id)
		}
	})
	scanTime := measureTime(func() {
		for _, id := range probe {
			task.Children(tasks, id)
		}
	})

	var visible int
	filterTime := measureTime(func() {
		f := task.Filter{Status: task.Active, Tags: []string{"work"}}
		roots := task.Visible(tasks, f)
		task.Walk(snap, roots, func(task.Task, int) bool {
			visible++
			return true
		})
	})

	stats := task.Count(tasks)
	fmt.Printf("Tasks: %d (%d active, %d completed), fanout %d\n", stats.Total, stats.Active, stats.Completed, per)
	fmt.Printf("Create time: %dms\n", createTime.Milliseconds())
	fmt.Printf("Children via index: %s for %d lookups\n", indexTime, *lookups)
	fmt.Printf("Children via scan: %s for %d lookups\n", scanTime, *lookups)
	fmt.Printf("Filter and walk: %s (%d rows)\n", filterTime, visible)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func measureTime(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

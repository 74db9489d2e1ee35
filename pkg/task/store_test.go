package task

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

var epoch = time.Date(2024, time.April, 21, 9, 0, 0, 0, time.UTC)

// newTestStore returns a store with predictable ids ("t1", "t2", ...) and a fixed clock
func newTestStore(opts ...Option) *Store {
	n := 0
	ids := func() ID {
		n++
		return ID("t" + strconv.Itoa(n))
	}
	clock := func() time.Time { return epoch }
	return NewStore(append([]Option{WithIDs(ids), WithClock(clock)}, opts...)...)
}

func ids(tasks []Task) []ID {
	out := make([]ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestStore_Create(t *testing.T) {
	t.Run("rejects empty titles", func(t *testing.T) {
		is := is.New(t)
		s := newTestStore()
		for _, title := range []string{"", "   ", "\t\n"} {
			_, err := s.Create(title)
			is.Equal(err, ErrEmptyTitle)
		}
		is.Equal(s.Len(), 0)
		is.Equal(s.Snapshot().Version, uint64(0))
	})

	t.Run("creates a task with defaults", func(t *testing.T) {
		is := is.New(t)
		s := newTestStore()
		created, err := s.Create("  Buy milk ")
		is.NoErr(err)
		is.Equal(s.Len(), 1)
		is.Equal(created.Title, "Buy milk")
		is.Equal(created.Completed, false)
		is.Equal(len(created.Tags), 0)
		is.True(created.Tags != nil)
		is.Equal(created.Color, Primary)
		is.Equal(created.CreatedAt, epoch)
		is.True(created.Reminder == nil)
		is.True(created.IsRoot())

		got, ok := s.Get(created.ID)
		is.True(ok)
		is.Equal(got.Title, "Buy milk")
	})

	t.Run("ids are unique", func(t *testing.T) {
		is := is.New(t)
		s := NewStore()
		seen := map[ID]bool{}
		for i := 0; i < 100; i++ {
			created, err := s.Create("task")
			is.NoErr(err)
			is.True(!seen[created.ID])
			seen[created.ID] = true
		}
	})

	t.Run("retries on id collision", func(t *testing.T) {
		is := is.New(t)
		seq := []ID{"a", "a", "b"}
		s := NewStore(WithIDs(func() ID {
			id := seq[0]
			seq = seq[1:]
			return id
		}))
		a, err := s.Create("first")
		is.NoErr(err)
		b, err := s.Create("second")
		is.NoErr(err)
		is.Equal(a.ID, ID("a"))
		is.Equal(b.ID, ID("b"))
	})

	t.Run("gives up when the generator keeps colliding", func(t *testing.T) {
		is := is.New(t)
		s := NewStore(WithIDs(func() ID { return "same" }))
		_, err := s.Create("first")
		is.NoErr(err)
		_, err = s.Create("second")
		is.Equal(err, ErrIDAlreadyExists)
		is.Equal(s.Len(), 1)
	})

	t.Run("applies options", func(t *testing.T) {
		is := is.New(t)
		s := newTestStore()
		p, _ := s.Create("parent")
		at := epoch.Add(time.Hour)
		c, err := s.Create("child", WithParent(p.ID), WithColor(Purple), WithReminder(at))
		is.NoErr(err)
		is.Equal(c.ParentID, p.ID)
		is.Equal(c.Color, Purple)
		is.Equal(*c.Reminder, at)
	})

	t.Run("unknown color falls back to default", func(t *testing.T) {
		is := is.New(t)
		s := newTestStore()
		c, err := s.Create("x", WithColor("magenta"))
		is.NoErr(err)
		is.Equal(c.Color, Primary)
	})

	t.Run("dangling parent is accepted", func(t *testing.T) {
		is := is.New(t)
		s := newTestStore()
		c, err := s.Create("orphan", WithParent("missing"))
		is.NoErr(err)
		is.Equal(c.ParentID, ID("missing"))
	})
}

func TestStore_Update(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a")

	t.Run("replaces only provided attributes", func(t *testing.T) {
		is := is.New(t)
		title := "renamed"
		is.NoErr(s.Update(a.ID, Patch{Title: &title}))
		got, _ := s.Get(a.ID)
		is.Equal(got.Title, "renamed")
		is.Equal(got.Color, Primary)
		is.Equal(got.Completed, false)
	})

	t.Run("past reminders are allowed", func(t *testing.T) {
		is := is.New(t)
		past := epoch.Add(-24 * time.Hour)
		is.NoErr(s.SetReminder(a.ID, past))
		got, _ := s.Get(a.ID)
		is.Equal(*got.Reminder, past)

		is.NoErr(s.ClearReminder(a.ID))
		got, _ = s.Get(a.ID)
		is.True(got.Reminder == nil)
	})

	t.Run("tags are deduplicated", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.Update(a.ID, Patch{Tags: []string{"work", " work", "home", ""}}))
		got, _ := s.Get(a.ID)
		is.Equal(got.Tags, []string{"work", "home"})

		is.NoErr(s.Update(a.ID, Patch{Tags: []string{}}))
		got, _ = s.Get(a.ID)
		is.Equal(len(got.Tags), 0)
	})

	t.Run("returns error on invalid task ID", func(t *testing.T) {
		is := is.New(t)
		before := s.Snapshot().Version
		title := "x"
		is.Equal(s.Update("invalid", Patch{Title: &title}), ErrNotFound)
		is.Equal(s.Snapshot().Version, before)
	})

	t.Run("previous snapshots are not modified", func(t *testing.T) {
		is := is.New(t)
		before := s.Snapshot()
		c := Red
		is.NoErr(s.Update(a.ID, Patch{Color: &c}))
		old, _ := before.Get(a.ID)
		is.Equal(old.Color, Primary)
		is.True(s.Snapshot().Version > before.Version)
	})

	t.Run("returned tasks do not share state with the store", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.AddTag(a.ID, "work"))
		at := epoch.Add(time.Hour)
		is.NoErr(s.SetReminder(a.ID, at))
		_, _ = s.Create("child", WithParent(a.ID))
		version := s.Snapshot().Version

		got, _ := s.Get(a.ID)
		got.Tags[0] = "changed"
		*got.Reminder = epoch
		children := s.Snapshot().Children(a.ID)
		children[0].Title = "changed"

		again, _ := s.Get(a.ID)
		is.Equal(again.Tags, []string{"work"})
		is.Equal(*again.Reminder, at)
		is.Equal(s.Snapshot().Children(a.ID)[0].Title, "child")
		is.Equal(s.Snapshot().Version, version)
	})
}

func TestStore_Cycles(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a")
	b, _ := s.Create("b", WithParent(a.ID))
	c, _ := s.Create("c", WithParent(b.ID))

	t.Run("cannot become its own parent", func(t *testing.T) {
		is := is.New(t)
		is.Equal(s.Move(a.ID, a.ID), ErrCycle)
	})

	t.Run("cannot move under a descendant", func(t *testing.T) {
		is := is.New(t)
		is.Equal(s.Move(a.ID, c.ID), ErrCycle)
		got, _ := s.Get(a.ID)
		is.True(got.IsRoot())
	})

	t.Run("can move elsewhere", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.Move(c.ID, a.ID))
		is.Equal(ids(s.Snapshot().Children(a.ID)), []ID{b.ID, c.ID})
		is.NoErr(s.Move(c.ID, ""))
		got, _ := s.Get(c.ID)
		is.True(got.IsRoot())
	})
}

func TestStore_Delete(t *testing.T) {
	build := func(opts ...Option) (*Store, Task, Task, Task, Task) {
		s := newTestStore(opts...)
		x, _ := s.Create("x")
		child, _ := s.Create("child", WithParent(x.ID))
		grandchild, _ := s.Create("grandchild", WithParent(child.ID))
		other, _ := s.Create("other")
		return s, x, child, grandchild, other
	}

	t.Run("removes direct children and orphans grandchildren", func(t *testing.T) {
		is := is.New(t)
		s, x, child, grandchild, other := build()
		is.NoErr(s.Delete(x.ID))
		snap := s.Snapshot()
		is.True(!snap.Has(x.ID))
		is.True(!snap.Has(child.ID))
		is.True(snap.Has(other.ID))
		got, ok := snap.Get(grandchild.ID)
		is.True(ok)
		is.Equal(got.ParentID, child.ID)
		is.True(!snap.Has(got.ParentID))
	})

	t.Run("subtree policy removes every descendant", func(t *testing.T) {
		is := is.New(t)
		s, x, _, _, other := build(WithDeletePolicy(DeleteSubtree))
		is.NoErr(s.Delete(x.ID))
		is.Equal(ids(s.Snapshot().Tasks()), []ID{other.ID})
	})

	t.Run("returns error on invalid task ID", func(t *testing.T) {
		is := is.New(t)
		s, _, _, _, _ := build()
		is.Equal(s.Delete("invalid"), ErrNotFound)
		is.Equal(s.Len(), 4)
	})
}

func TestStore_Toggle(t *testing.T) {
	is := is.New(t)
	s := newTestStore()
	a, _ := s.Create("a")

	is.NoErr(s.Toggle(a.ID))
	got, _ := s.Get(a.ID)
	is.Equal(got.Completed, true)

	is.NoErr(s.Toggle(a.ID))
	got, _ = s.Get(a.ID)
	is.Equal(got.Completed, false)

	is.Equal(s.Toggle("invalid"), ErrNotFound)
}

func TestStore_Tags(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a")

	t.Run("keeps insertion order", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.AddTag(a.ID, "work"))
		is.NoErr(s.AddTag(a.ID, " urgent "))
		got, _ := s.Get(a.ID)
		is.Equal(got.Tags, []string{"work", "urgent"})
	})

	t.Run("adding an existing tag is a no-op", func(t *testing.T) {
		is := is.New(t)
		before := s.Snapshot().Version
		is.NoErr(s.AddTag(a.ID, "work"))
		is.Equal(s.Snapshot().Version, before)
	})

	t.Run("rejects empty tags", func(t *testing.T) {
		is := is.New(t)
		is.Equal(s.AddTag(a.ID, "  "), ErrEmptyTag)
	})

	t.Run("removes tags", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(s.RemoveTag(a.ID, "work"))
		got, _ := s.Get(a.ID)
		is.Equal(got.Tags, []string{"urgent"})
		is.NoErr(s.RemoveTag(a.ID, "missing"))
	})

	t.Run("returns error on invalid task ID", func(t *testing.T) {
		is := is.New(t)
		is.Equal(s.AddTag("invalid", "x"), ErrNotFound)
		is.Equal(s.RemoveTag("invalid", "x"), ErrNotFound)
	})
}

func TestStore_Subscribe(t *testing.T) {
	is := is.New(t)
	s := newTestStore()

	var versions []uint64
	cancel := s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
	})
	a, _ := s.Create("a")
	is.NoErr(s.Toggle(a.ID))
	_, _ = s.Create("") // rejected, nothing published
	cancel()
	is.NoErr(s.Toggle(a.ID))

	is.Equal(versions, []uint64{1, 2})
}

func TestStore_SubscribeOrder(t *testing.T) {
	is := is.New(t)
	s := newTestStore()
	a, _ := s.Create("a")

	var (
		mu       sync.Mutex
		versions []uint64
	)
	s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		versions = append(versions, snap.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Toggle(a.ID)
			}
		}()
	}
	wg.Wait()

	is.Equal(len(versions), 400)
	for i := 1; i < len(versions); i++ {
		is.True(versions[i] > versions[i-1]) // delivered in version order
	}
}

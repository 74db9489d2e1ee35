package task

// Snapshot is an immutable view of the store at a given version.
// A new snapshot is published after every successful mutation, so
// comparing versions is enough to detect change.
type Snapshot struct {
	Version uint64

	tasks    []Task
	index    map[ID]int
	children map[ID][]int
}

func newSnapshot(version uint64, tasks []Task) *Snapshot {
	s := &Snapshot{
		Version:  version,
		tasks:    tasks,
		index:    make(map[ID]int, len(tasks)),
		children: map[ID][]int{},
	}
	for i, t := range tasks {
		s.index[t.ID] = i
		if !t.IsRoot() {
			s.children[t.ParentID] = append(s.children[t.ParentID], i)
		}
	}
	return s
}

// Tasks returns every task in store order.
// The returned slice is a copy, but tag slices are shared and must not be modified.
// Get and Children return independent copies.
func (s Snapshot) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

func (s Snapshot) Len() int {
	return len(s.tasks)
}

func (s Snapshot) Get(id ID) (Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

func (s Snapshot) Has(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// Children returns the direct children of id in store order using the
// index built with the snapshot
func (s Snapshot) Children(id ID) []Task {
	idx := s.children[id]
	out := make([]Task, len(idx))
	for i, j := range idx {
		out[i] = s.tasks[j].clone()
	}
	return out
}

func (s Snapshot) HasChildren(id ID) bool {
	return len(s.children[id]) > 0
}

// Parent returns the parent of id, if both exist
func (s Snapshot) Parent(id ID) (Task, bool) {
	t, ok := s.Get(id)
	if !ok || t.IsRoot() {
		return Task{}, false
	}
	return s.Get(t.ParentID)
}

package task

// Children returns every task whose parent is id, in store order.
// It scans the whole list, Snapshot.Children answers the same from an index.
func Children(tasks []Task, id ID) []Task {
	out := []Task{}
	for _, t := range tasks {
		if t.ParentID == id && id != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsAncestor reports whether ancestor appears on the parent chain of id
func IsAncestor(s Snapshot, ancestor, id ID) bool {
	seen := map[ID]bool{}
	for {
		t, ok := s.Get(id)
		if !ok || t.IsRoot() || seen[id] {
			return false
		}
		seen[id] = true
		if t.ParentID == ancestor {
			return true
		}
		id = t.ParentID
	}
}

// Descendants returns all tasks below id, depth first
func Descendants(s Snapshot, id ID) []Task {
	out := []Task{}
	Walk(s, s.Children(id), func(t Task, _ int) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Walk visits roots and their children depth first.
// fn receives the nesting depth and returns false to skip the task's children.
// A task is never visited twice, so a malformed cycle cannot loop forever.
func Walk(s Snapshot, roots []Task, fn func(t Task, depth int) bool) {
	seen := map[ID]bool{}
	var walk func(t Task, depth int)
	walk = func(t Task, depth int) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		if !fn(t, depth) {
			return
		}
		for _, c := range s.Children(t.ID) {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}

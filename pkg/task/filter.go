package task

import (
	"errors"
	"strings"
)

type Status int

const (
	All Status = iota
	Active
	Completed
)

var statusNames = []string{"all", "active", "completed"}

func (s Status) String() string {
	if s < All || s > Completed {
		return "unknown"
	}
	return statusNames[s]
}

func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range statusNames {
		if s == name {
			return Status(i), nil
		}
	}
	return All, errors.New("invalid status, expected 'all', 'active', or 'completed'")
}

func (s Status) Match(t Task) bool {
	switch s {
	case Active:
		return !t.Completed
	case Completed:
		return t.Completed
	default:
		return true
	}
}

type Filter struct {
	Status Status
	// a task passes if it carries at least one of these, empty passes everything
	Tags []string
}

func (f Filter) matchTags(t Task) bool {
	if len(f.Tags) == 0 {
		return true
	}
	for _, tag := range f.Tags {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

func (f Filter) Match(t Task) bool {
	return f.Status.Match(t) && f.matchTags(t)
}

// Visible returns the root tasks that pass the filter, in store order.
// Children are not filtered, they are shown under their parent regardless.
func Visible(tasks []Task, f Filter) []Task {
	out := []Task{}
	for _, t := range tasks {
		if t.IsRoot() && f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// AllTags returns every distinct tag in the order it was first seen
func AllTags(tasks []Task) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, t := range tasks {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// ToggleTag adds tag to the selection, or removes it if already selected
func ToggleTag(selected []string, tag string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, s := range selected {
		if s == tag {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}

type Stats struct {
	Active    int
	Completed int
	Total     int
}

func Count(tasks []Task) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	s.Total = len(tasks)
	return s
}

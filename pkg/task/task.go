package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ID string

// RandomID returns a fresh v4 UUID
func RandomID() ID {
	return ID(uuid.NewString())
}

type Color string

const (
	Primary   Color = "primary"
	Secondary Color = "secondary"
	Blue      Color = "blue"
	Purple    Color = "purple"
	Orange    Color = "orange"
	Red       Color = "red"
)

// Palette is the fixed set of colors a task can carry, the first entry is the default
var Palette = []Color{Primary, Secondary, Blue, Purple, Orange, Red}

func DefaultColor() Color {
	return Palette[0]
}

// ParseColor returns the palette entry matching s, falling back to the default
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Palette {
		if string(c) == s {
			return c, true
		}
	}
	return DefaultColor(), false
}

type Task struct {
	// constants
	ID        ID
	CreatedAt time.Time

	Title     string
	Completed bool
	Color     Color
	Tags      []string
	Reminder  *time.Time

	// empty for root tasks
	ParentID ID
}

func (t Task) IsRoot() bool {
	return t.ParentID == ""
}

func (t Task) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// clone copies the slices and pointers so that snapshots never share mutable state
func (t Task) clone() Task {
	if t.Tags != nil {
		t.Tags = append([]string{}, t.Tags...)
	}
	if t.Reminder != nil {
		r := *t.Reminder
		t.Reminder = &r
	}
	return t
}

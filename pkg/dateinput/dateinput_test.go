package dateinput

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel(t *testing.T) {
	now := time.Date(2024, time.April, 17, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("parses as you type", func(t *testing.T) {
		is := is.New(t)
		m := typeText(NewModel(clock), "in 10m")
		is.True(m.Value() != nil)
		is.Equal(*m.Value(), now.Add(10*time.Minute))
		is.True(strings.Contains(m.View(), "Today at 10:10"))
	})

	t.Run("nil while invalid", func(t *testing.T) {
		is := is.New(t)
		m := typeText(NewModel(clock), "someday")
		is.True(m.Value() == nil)
		is.True(strings.Contains(m.View(), "✗"))
	})

	t.Run("set and reset", func(t *testing.T) {
		is := is.New(t)
		m := NewModel(clock)
		at := now.Add(time.Hour)
		m.SetValue(&at)
		is.Equal(*m.Value(), at)
		m.Reset()
		is.True(m.Value() == nil)
	})
}

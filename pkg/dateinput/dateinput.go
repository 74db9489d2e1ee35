// Package dateinput is a text input bubble that parses reminder expressions
// as they are typed and previews the result.
package dateinput

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/taskboard/pkg/task/date"
)

var (
	indicator = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	checkmark = indicator.
			Foreground(lipgloss.AdaptiveColor{Light: "#00ad3b", Dark: "#73F59F"}).
			Render("✓")

	cross = indicator.
		Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#FF5047"}).
		Render("✗")

	faded = lipgloss.AdaptiveColor{Light: "#666", Dark: "#999"}
)

type Model struct {
	i     textinput.Model
	value *time.Time
	now   func() time.Time

	Prompt string
}

func NewModel(now func() time.Time) Model {
	i := textinput.New()
	i.Focus()
	i.CharLimit = 32
	i.Prompt = ""
	i.Placeholder = "in 10m, tomorrow 9:00, 2024-05-01 14:30"
	return Model{
		i:      i,
		now:    now,
		Prompt: "remind",
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.i, cmd = m.i.Update(msg)
		m.value = m.parse(m.i.Value())
		return m, cmd
	}
	return m, nil
}

// View renders the input followed by a preview of the parsed reminder
func (m Model) View() string {
	ind := cross
	if m.i.Value() == "" {
		ind = ""
	} else if m.value != nil {
		ind = checkmark + " " + date.Relative(*m.value, m.now()) + " (" + date.Until(*m.value, m.now()) + ")"
	}
	return lipgloss.NewStyle().Foreground(faded).Render(m.Prompt+": ") + m.i.View() + ind
}

// Value is nil until the input parses
func (m Model) Value() *time.Time {
	return m.value
}

func (m *Model) SetValue(t *time.Time) {
	m.value = t
	if t == nil {
		m.i.SetValue("")
		return
	}
	m.i.SetValue(t.Format("2006-01-02 15:04"))
}

// Reset clears the input and focuses it
func (m *Model) Reset() {
	m.SetValue(nil)
	m.i.Focus()
}

func (m Model) parse(s string) *time.Time {
	t, err := date.Parse(s, m.now())
	if err != nil {
		return nil
	}
	return &t
}

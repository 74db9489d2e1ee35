package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/taskboard/pkg/task"
)

var (
	tabContainer = lipgloss.NewStyle().Padding(1, 1)
	activeTab    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	inactiveTab  = lipgloss.NewStyle().Foreground(Secondary)
	tabDivider   = lipgloss.NewStyle().Foreground(Faded)
)

var statuses = []task.Status{task.All, task.Active, task.Completed}

// Tabs shows the status filters, the selected one highlighted
type Tabs struct {
	i int

	Width int
	Info  string
}

func NewTabs(initial task.Status) Tabs {
	t := Tabs{}
	t.Set(initial)
	return t
}

func (m Tabs) View() string {
	tabs := make([]string, len(statuses))
	for i, s := range statuses {
		r := inactiveTab
		if i == m.i {
			r = activeTab
		}
		name := s.String()
		tabs[i] = r.Render(strings.ToUpper(name[:1]) + name[1:])
	}
	w := lipgloss.Width
	left := strings.Join(tabs, tabDivider.Render(" | "))
	right := m.Info
	space := lipgloss.NewStyle().Width(max(m.Width-2-w(left)-w(right), 0)).Render("")
	return tabContainer.Render(lipgloss.JoinHorizontal(lipgloss.Center, left, space, right)) + "\n"
}

func (m Tabs) Value() task.Status {
	return statuses[m.i]
}

func (m *Tabs) Set(s task.Status) {
	for i, x := range statuses {
		if x == s {
			m.i = i
			return
		}
	}
	m.i = 0
}

// Next cycles to the following status
func (m *Tabs) Next() {
	m.i = (m.i + 1) % len(statuses)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

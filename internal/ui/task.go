package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/taskboard/pkg/reminder"
	"github.com/td0m/taskboard/pkg/task"
	"github.com/td0m/taskboard/pkg/task/date"
)

var (
	TaskIcon     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TaskTitle    = lipgloss.NewStyle().Bold(true)
	SubTaskTitle = lipgloss.NewStyle().Foreground(Secondary)

	TaskDivider = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1).Render("∙")
	TaskTag     = lipgloss.NewStyle().Foreground(Blue)

	reminderOverdue  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	reminderUpcoming = lipgloss.NewStyle().Foreground(Yellow)
	reminderPlain    = lipgloss.NewStyle().Foreground(Faded)

	badgeOverdue  = lipgloss.NewStyle().Foreground(Background).Background(Red).Padding(0, 1)
	badgeUpcoming = lipgloss.NewStyle().Foreground(Background).Background(Yellow).Padding(0, 1)

	footer      = lipgloss.NewStyle().Foreground(Secondary)
	selectedTag = lipgloss.NewStyle().Foreground(Background).Background(Blue)
)

type Row struct {
	Task     task.Task
	Depth    int
	Selected bool
	// children exist but are hidden
	Folded      bool
	HasChildren bool
}

// RenderRow draws a single task line. Root tasks are bold, subtasks faded.
func RenderRow(r Row, now time.Time) string {
	t := r.Task
	title := TaskTitle
	if r.Depth > 0 {
		title = SubTaskTitle
	}
	if r.Selected {
		title = title.Background(Faded)
	}
	if t.Completed {
		title = title.Strikethrough(true).Foreground(Secondary)
	}

	icon := "•"
	if t.Completed {
		icon = "✓"
	}
	fold := "  "
	if r.HasChildren {
		fold = "▾ "
		if r.Folded {
			fold = "▸ "
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("   ", r.Depth))
	b.WriteString(fold)
	b.WriteString(TaskIcon.Foreground(ColorOf(t.Color)).Render(icon))
	b.WriteString(title.Render(t.Title))
	if t.Reminder != nil {
		b.WriteString(TaskDivider)
		b.WriteString(RenderReminder(t, now))
	}
	if len(t.Tags) > 0 {
		b.WriteString(TaskDivider)
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = TaskTag.Render("#" + tag)
		}
		b.WriteString(strings.Join(tags, " "))
	}
	return b.String()
}

func RenderReminder(t task.Task, now time.Time) string {
	label := date.Relative(*t.Reminder, now)
	switch reminder.Classify(t, now) {
	case reminder.Overdue:
		return reminderOverdue.Render("⚠ " + label)
	case reminder.Upcoming:
		return reminderUpcoming.Render("⏰ " + label)
	}
	return reminderPlain.Render(label)
}

// Badges summarises overdue and upcoming reminders, empty when there are none
func Badges(overdue, upcoming int) string {
	out := []string{}
	if overdue > 0 {
		out = append(out, badgeOverdue.Render(strconv.Itoa(overdue)+" Overdue"))
	}
	if upcoming > 0 {
		out = append(out, badgeUpcoming.Render(strconv.Itoa(upcoming)+" Upcoming"))
	}
	return strings.Join(out, " ")
}

// TagBar lists every tag, selected ones highlighted, the cursor marked with brackets
func TagBar(all, selected []string, cursor int) string {
	if len(all) == 0 {
		return footer.Render("no tags yet")
	}
	sel := map[string]bool{}
	for _, s := range selected {
		sel[s] = true
	}
	parts := make([]string, len(all))
	for i, tag := range all {
		s := "#" + tag
		if i == cursor {
			s = "[" + s + "]"
		}
		if sel[tag] {
			s = selectedTag.Render(s)
		} else {
			s = TaskTag.Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

func Footer(s task.Stats) string {
	return footer.Render(strconv.Itoa(s.Active) + " Active ∙ " +
		strconv.Itoa(s.Completed) + " Completed ∙ " +
		strconv.Itoa(s.Total) + " Total")
}

// Swatches renders the color palette with the cursor on index i
func Swatches(i int) string {
	parts := make([]string, len(task.Palette))
	for j, c := range task.Palette {
		s := lipgloss.NewStyle().Foreground(ColorOf(c)).Render("●")
		if j == i {
			s = "[" + s + "]"
		} else {
			s = " " + s + " "
		}
		parts[j] = s
	}
	return strings.Join(parts, "")
}

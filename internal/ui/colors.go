package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/taskboard/pkg/task"
)

const (
	Background = lipgloss.Color("#000")

	Primary   = lipgloss.Color("#fff")
	Secondary = lipgloss.Color("#888")
	Faded     = lipgloss.Color("#555")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
	Orange = lipgloss.Color("#c27510")
	Purple = lipgloss.Color("#9b59d0")
)

var palette = map[task.Color]lipgloss.Color{
	task.Primary:   Primary,
	task.Secondary: Secondary,
	task.Blue:      Blue,
	task.Purple:    Purple,
	task.Orange:    Orange,
	task.Red:       Red,
}

// ColorOf maps a task color to a terminal color
func ColorOf(c task.Color) lipgloss.Color {
	if col, ok := palette[c]; ok {
		return col
	}
	return Primary
}

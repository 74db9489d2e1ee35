package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/td0m/taskboard/internal/config"
	"github.com/td0m/taskboard/internal/ui"
	"github.com/td0m/taskboard/pkg/dateinput"
	"github.com/td0m/taskboard/pkg/reminder"
	"github.com/td0m/taskboard/pkg/task"
)

const (
	headerHeight = 4
	footerHeight = 3

	refreshInterval = 30 * time.Second
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeAddSubtask
	modeRename
	modeTag
	modeUntag
	modeColor
	modeReminder
	modeTagFilter
	modeConfirmDelete
)

// tickMsg refreshes relative reminder labels and badges
type tickMsg time.Time

// remindedMsg is sent by the reminder scheduler after each check
type remindedMsg struct {
	sent []task.Task
}

type app struct {
	cfg    config.Config
	store  *task.Store
	logger *log.Logger
	now    func() time.Time

	mode     mode
	viewport viewport.Model
	input    textinput.Model
	reminder dateinput.Model
	tabs     ui.Tabs

	snap       task.Snapshot
	tags       []string
	filterTags []string
	expanded   map[task.ID]bool
	rows       []ui.Row
	cursor     int

	tagCursor   int
	colorCursor int
	status      string
}

func newApp(store *task.Store, cfg config.Config, logger *log.Logger, now func() time.Time) *app {
	i := textinput.New()
	i.Prompt = ""
	i.CharLimit = 256
	i.Width = 40

	m := &app{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		now:      now,
		viewport: viewport.New(0, 0),
		input:    i,
		reminder: dateinput.NewModel(now),
		tabs:     ui.NewTabs(cfg.Status()),
		expanded: map[task.ID]bool{},
		status:   fmt.Sprintf("Press '%s' to add a task, '%s' to quit.", cfg.Keys.Add, cfg.Keys.Quit),
	}
	m.refresh(true)
	return m
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *app) Init() tea.Cmd {
	return tickCmd(refreshInterval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.tabs.Width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		m.setCursor(m.cursor)
	case tickMsg:
		cmd = tickCmd(refreshInterval)
	case remindedMsg:
		if len(msg.sent) > 0 {
			titles := make([]string, len(msg.sent))
			for i, t := range msg.sent {
				titles[i] = t.Title
			}
			m.status = "Reminder: " + strings.Join(titles, ", ")
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		cmd = m.keyUpdate(msg)
	}
	m.refresh(false)
	m.render()
	return m, cmd
}

// handle keys differently based on the current mode
func (m *app) keyUpdate(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.mode != modeNormal && (key == m.cfg.Keys.Cancel || msg.Type == tea.KeyEsc) {
		m.setMode(modeNormal)
		m.status = "Cancelled"
		return nil
	}
	switch m.mode {
	case modeAdd, modeAddSubtask, modeRename, modeTag, modeUntag:
		if key == m.cfg.Keys.Confirm {
			m.submitText()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	case modeReminder:
		if key == m.cfg.Keys.Confirm {
			m.submitReminder()
			return nil
		}
		var cmd tea.Cmd
		m.reminder, cmd = m.reminder.Update(msg)
		return cmd
	case modeColor:
		m.colorKey(key)
	case modeTagFilter:
		m.tagFilterKey(key)
	case modeConfirmDelete:
		m.confirmDeleteKey(key)
	default:
		return m.normalKey(key)
	}
	return nil
}

func (m *app) normalKey(key string) tea.Cmd {
	k := m.cfg.Keys
	id, ok := m.atCursor()
	switch key {
	case k.Quit:
		return tea.Quit
	case k.Down, "down":
		m.setCursor(m.cursor + 1)
	case k.Up, "up":
		m.setCursor(m.cursor - 1)
	case "g":
		m.setCursor(0)
	case "G":
		m.setCursor(len(m.rows) - 1)
	case k.Add:
		m.setMode(modeAdd)
	case k.NextFilter:
		m.tabs.Next()
		m.status = "Showing " + m.tabs.Value().String() + " tasks"
		m.refresh(true)
		m.setCursor(0)
	case k.TagFilter:
		m.tagCursor = 0
		m.setMode(modeTagFilter)
	}
	if !ok {
		return nil
	}
	t, _ := m.snap.Get(id)
	switch key {
	case k.AddSubtask:
		m.setMode(modeAddSubtask)
	case k.Toggle:
		m.report(m.store.Toggle(id), "Toggled task")
	case k.Delete:
		m.setMode(modeConfirmDelete)
		m.status = fmt.Sprintf("Delete %q and its subtasks? y/n", t.Title)
	case k.Rename:
		m.setMode(modeRename)
		m.input.SetValue(t.Title)
		m.input.CursorEnd()
	case k.Tag:
		m.setMode(modeTag)
	case k.Untag:
		if len(t.Tags) == 0 {
			m.status = "Task has no tags"
			return nil
		}
		m.setMode(modeUntag)
		m.input.SetValue(t.Tags[len(t.Tags)-1])
		m.input.CursorEnd()
	case k.Color:
		m.colorCursor = 0
		for i, c := range task.Palette {
			if c == t.Color {
				m.colorCursor = i
			}
		}
		m.setMode(modeColor)
	case k.Reminder:
		m.setMode(modeReminder)
		m.reminder.SetValue(t.Reminder)
	case k.Unremind:
		m.report(m.store.ClearReminder(id), "Reminder removed")
	case k.Fold:
		if m.snap.HasChildren(id) {
			m.expanded[id] = !m.expanded[id]
			m.refresh(true)
		}
	}
	return nil
}

// submitText validates the input before anything reaches the store
func (m *app) submitText() {
	value := strings.TrimSpace(m.input.Value())
	id, _ := m.atCursor()
	switch m.mode {
	case modeAdd, modeAddSubtask:
		if value == "" {
			m.status = "Title cannot be empty"
			return
		}
		opts := []task.CreateOption{task.WithColor(m.cfg.Color())}
		if m.mode == modeAddSubtask {
			opts = append(opts, task.WithParent(id))
			m.expanded[id] = true
		}
		created, err := m.store.Create(value, opts...)
		m.report(err, "Added task")
		if err == nil {
			m.refresh(true)
			m.moveTo(created.ID)
		}
	case modeRename:
		if value == "" {
			m.status = "Title cannot be empty"
			return
		}
		m.report(m.store.SetTitle(id, value), "Renamed task")
	case modeTag:
		if value == "" {
			m.status = "Tag cannot be empty"
			return
		}
		m.report(m.store.AddTag(id, value), "Tagged #"+value)
	case modeUntag:
		if value == "" {
			m.status = "Tag cannot be empty"
			return
		}
		m.report(m.store.RemoveTag(id, value), "Removed #"+value)
	}
	m.setMode(modeNormal)
}

func (m *app) submitReminder() {
	at := m.reminder.Value()
	if at == nil {
		m.status = "Reminder not understood"
		return
	}
	id, _ := m.atCursor()
	m.report(m.store.SetReminder(id, *at), "Reminder set")
	m.setMode(modeNormal)
}

func (m *app) colorKey(key string) {
	switch key {
	case "h", "left":
		m.colorCursor = clamp(m.colorCursor-1, 0, len(task.Palette)-1)
	case "l", "right":
		m.colorCursor = clamp(m.colorCursor+1, 0, len(task.Palette)-1)
	case m.cfg.Keys.Confirm:
		id, _ := m.atCursor()
		c := task.Palette[m.colorCursor]
		m.report(m.store.SetColor(id, c), "Color set to "+string(c))
		m.setMode(modeNormal)
	}
}

func (m *app) tagFilterKey(key string) {
	switch key {
	case "h", "left":
		m.tagCursor = clamp(m.tagCursor-1, 0, max(len(m.tags)-1, 0))
	case "l", "right":
		m.tagCursor = clamp(m.tagCursor+1, 0, max(len(m.tags)-1, 0))
	case m.cfg.Keys.Toggle, "space":
		if m.tagCursor < len(m.tags) {
			m.setTags(task.ToggleTag(m.filterTags, m.tags[m.tagCursor]))
		}
	case "x":
		m.setTags(nil)
	case m.cfg.Keys.Confirm:
		m.setMode(modeNormal)
	}
}

func (m *app) confirmDeleteKey(key string) {
	switch key {
	case "y", "Y":
		id, _ := m.atCursor()
		m.report(m.store.Delete(id), "Deleted task")
	default:
		m.status = "Delete cancelled"
	}
	m.setMode(modeNormal)
}

func (m *app) setMode(md mode) {
	m.mode = md
	m.input.SetValue("")
	m.input.Blur()
	switch md {
	case modeAdd:
		m.input.Placeholder = "Add a new task..."
	case modeAddSubtask:
		m.input.Placeholder = "Add a subtask..."
	case modeTag, modeUntag:
		m.input.Placeholder = "Enter tag name..."
	case modeRename:
		m.input.Placeholder = "New title..."
	case modeReminder:
		m.reminder.Reset()
		return
	default:
		return
	}
	m.input.Focus()
}

// report turns store errors into a status line, they are never fatal
func (m *app) report(err error, ok string) {
	if err != nil {
		m.logger.Debug("store operation rejected", "err", err)
		m.status = err.Error()
		return
	}
	m.status = ok
}

func (m *app) setTags(tags []string) {
	m.filterTags = tags
	m.refresh(true)
	m.setCursor(0)
}

// refresh recomputes the visible rows when the store changed, or when forced
func (m *app) refresh(force bool) {
	snap := m.store.Snapshot()
	if !force && snap.Version == m.snap.Version {
		return
	}
	m.snap = snap
	tasks := snap.Tasks()
	m.tags = task.AllTags(tasks)

	// a tag that no longer exists cannot stay selected
	selected := m.filterTags[:0:0]
	for _, tag := range m.filterTags {
		for _, x := range m.tags {
			if x == tag {
				selected = append(selected, tag)
			}
		}
	}
	m.filterTags = selected

	filter := task.Filter{Status: m.tabs.Value(), Tags: m.filterTags}
	rows := []ui.Row{}
	task.Walk(snap, task.Visible(tasks, filter), func(t task.Task, depth int) bool {
		rows = append(rows, ui.Row{
			Task:        t,
			Depth:       depth,
			HasChildren: snap.HasChildren(t.ID),
			Folded:      !m.expanded[t.ID],
		})
		return m.expanded[t.ID]
	})
	m.rows = rows
	m.setCursor(m.cursor)
}

func (m *app) moveTo(id task.ID) {
	for i, r := range m.rows {
		if r.Task.ID == id {
			m.setCursor(i)
			return
		}
	}
}

func (m *app) setCursor(value int) {
	m.cursor = clamp(value, 0, max(len(m.rows)-1, 0))
	if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.YOffset = m.cursor - m.viewport.Height + 1
	}
	if m.cursor < m.viewport.YOffset {
		m.viewport.YOffset = m.cursor
	}
}

func (m *app) atCursor() (task.ID, bool) {
	// if no items visible
	if m.cursor >= len(m.rows) {
		return "", false
	}
	return m.rows[m.cursor].Task.ID, true
}

func (m *app) render() {
	m.viewport.SetContent(m.viewTasks())
}

func (m *app) viewTasks() string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Foreground(ui.Secondary).Render("  No tasks here. Press '" + m.cfg.Keys.Add + "' to add one.")
	}
	now := m.now()
	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		r.Selected = i == m.cursor
		lines[i] = ui.RenderRow(r, now)
	}
	return strings.Join(lines, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *app) View() string {
	now := m.now()
	tasks := m.snap.Tasks()
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Tasks") + " " +
		ui.Badges(len(reminder.Overdue(tasks, now)), len(reminder.Upcoming(tasks, now)))

	m.tabs.Info = ""
	if len(m.filterTags) > 0 {
		m.tabs.Info = "tags: " + strings.Join(m.filterTags, ", ")
	}

	statusline := ""
	switch m.mode {
	case modeAdd, modeAddSubtask:
		statusline = "add: " + m.input.View()
	case modeRename:
		statusline = "rename: " + m.input.View()
	case modeTag:
		statusline = "tag: " + m.input.View()
	case modeUntag:
		statusline = "remove tag: " + m.input.View()
	case modeReminder:
		statusline = m.reminder.View()
	case modeColor:
		statusline = "color: " + ui.Swatches(m.colorCursor)
	case modeTagFilter:
		statusline = "filter: " + ui.TagBar(m.tags, m.filterTags, m.tagCursor)
	default:
		statusline = m.status
	}
	return header + "\n" + m.tabs.View() + m.viewport.View() + "\n\n" + statusline + "\n" + ui.Footer(task.Count(tasks))
}

func clamp(v, low, high int) int {
	return min(high, max(low, v))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/models"
)

type AddTaskMsg struct{}

type AssignTaskMsg struct {
	Task models.Task
}

type UnassignTaskMsg struct {
	Task models.Task
}

type ToggleCompleteMsg struct {
	Task models.Task
}

type DeleteTaskMsg struct {
	Task models.Task
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	switch i.Task.Status {
	case models.TaskStatusCompleted:
		return "✓ " + i.Task.Title
	case models.TaskStatusAssigned:
		return "○ " + i.Task.Title
	}
	return "· " + i.Task.Title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", capacity.FormatDuration(i.Task.DurationMinutes), i.Task.Status)
	if i.Task.ObsidianLink != nil {
		desc += " | " + *i.Task.ObsidianLink
	}
	return desc
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add      key.Binding
	Assign   key.Binding
	Unassign key.Binding
	Complete key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Assign: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "assign"),
		),
		Unassign: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unassign"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// InboxKeyMap drops the bindings that only make sense for assigned tasks.
func InboxKeyMap() KeyMap {
	k := DefaultKeyMap()
	k.Unassign.SetEnabled(false)
	k.Complete.SetEnabled(false)
	return k
}

type Model struct {
	list  list.Model
	keys  KeyMap
	empty string
}

// New builds a task list. empty is shown when there are no tasks.
func New(keys KeyMap, empty string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model

	bindings := []key.Binding{keys.Add, keys.Assign, keys.Unassign, keys.Complete, keys.Delete}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	return Model{list: l, keys: keys, empty: empty}
}

func (m *Model) SetTasks(tasks []models.Task) {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted task, if any.
func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the user is typing a filter query.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddTaskMsg{} }
		}
		if t, ok := m.Selected(); ok {
			switch {
			case key.Matches(msg, m.keys.Assign):
				return m, func() tea.Msg { return AssignTaskMsg{Task: t} }
			case key.Matches(msg, m.keys.Unassign):
				return m, func() tea.Msg { return UnassignTaskMsg{Task: t} }
			case key.Matches(msg, m.keys.Complete):
				return m, func() tea.Msg { return ToggleCompleteMsg{Task: t} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteTaskMsg{Task: t} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  " + m.empty
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

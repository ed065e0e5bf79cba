package queuelist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/models"
)

type AddQueueMsg struct{}

type DeleteQueueMsg struct {
	Queue models.Queue
}

// Item is a queue together with its weekly load.
type Item struct {
	Queue models.Queue
	Load  capacity.Load
}

func (i Item) Title() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Queue.Color)).Render("■")
	return swatch + " " + i.Queue.Title
}

func (i Item) Description() string {
	load := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Load.Color)).
		Render(fmt.Sprintf("%d%%", i.Load.Percentage))
	return fmt.Sprintf("%d tasks | %s of %s | %s",
		len(i.Queue.TaskIDs),
		capacity.FormatDuration(i.Load.UsedMinutes),
		capacity.FormatDuration(i.Load.TotalMinutes),
		load)
}

func (i Item) FilterValue() string { return i.Queue.Title }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add queue"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete queue"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}
	return Model{list: l, keys: keys}
}

func (m *Model) SetQueues(items []Item) {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	m.list.SetItems(li)
}

func (m Model) Selected() (models.Queue, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Queue, ok
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
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddQueueMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if q, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteQueueMsg{Queue: q} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No queues yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

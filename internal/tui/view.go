package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bium/internal/tui/components/queuelist"
	"github.com/julianstephens/bium/internal/tui/components/tasklist"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAddTask, StateAddQueue, StateAssign:
		return docStyle.Render(m.form.View())
	case StateConfirmDelete, StateConfirmEmpty:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			dialogStyle.Render(m.confirmText()+"\n\n(y/n)"))
	}

	var content string
	switch m.state {
	case StateInbox:
		content = m.inbox.View()
	case StateQueues:
		left, right := paneStyle, paneStyle
		if m.focus == paneQueues {
			left = focusedPaneStyle
		} else {
			right = focusedPaneStyle
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			left.Render(m.queueList.View()),
			right.Render(m.queueTasks.View()),
		)
	case StateWeek:
		content = m.weekModel.View()
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		"",
		content,
		m.renderStatus(),
		m.help.View(m.helpKeys()),
	))
}

func (m Model) renderTabs() string {
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		label := t.name
		if t.state == StateInbox {
			label = fmt.Sprintf("%s (%d)", t.name, m.inbox.Len())
		}
		if t.state == m.state {
			rendered[i] = activeTabStyle.Render(label)
		} else {
			rendered[i] = inactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return dangerStyle.Render("✗ " + m.err.Error())
	}
	if m.status != "" {
		return successStyle.Render("✓ " + m.status)
	}
	return ""
}

func (m Model) confirmText() string {
	if m.state == StateConfirmEmpty {
		return "Return every assigned and completed task to the inbox?"
	}
	switch {
	case m.pending.task != nil:
		return fmt.Sprintf("Delete task %q?", m.pending.task.Title)
	case m.pending.queue != nil:
		n := len(m.pending.queue.TaskIDs)
		msg := fmt.Sprintf("Delete queue %q and its time blocks?", m.pending.queue.Title)
		if n > 0 {
			msg += fmt.Sprintf("\nIts %d task(s) go back to the inbox.", n)
		}
		return msg
	}
	return ""
}

func (m Model) helpKeys() help.KeyMap {
	h := contextHelp{global: m.keys}
	switch {
	case m.state == StateInbox:
		k := tasklist.InboxKeyMap()
		h.local = []key.Binding{k.Add, k.Assign, k.Delete}
	case m.state == StateQueues && m.focus == paneQueues:
		k := queuelist.DefaultKeyMap()
		h.local = []key.Binding{k.Add, k.Delete}
	case m.state == StateQueues:
		k := tasklist.DefaultKeyMap()
		h.local = []key.Binding{k.Assign, k.Unassign, k.Complete, k.Delete}
	}
	return h
}

package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/tui/components/queuelist"
	"github.com/julianstephens/bium/internal/tui/components/tasklist"
)

var errInboxTask = errors.New("task is already in the inbox")

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	switch m.state {
	case StateAddTask, StateAddQueue, StateAssign:
		return m.updateForm(msg)
	case StateConfirmDelete, StateConfirmEmpty:
		return m.updateConfirm(msg)
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabs))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + SessionState(len(tabs)) - 1) % SessionState(len(tabs))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.EmptyAll):
			m.previousState = m.state
			m.state = StateConfirmEmpty
			return m, nil
		case m.state == StateQueues && key.Matches(msg, m.keys.Left):
			m.focus = paneQueues
			return m, nil
		case m.state == StateQueues && key.Matches(msg, m.keys.Right):
			m.focus = paneTasks
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case StateQueues:
		if m.focus == paneQueues {
			before, _ := m.queueList.Selected()
			m.queueList, cmd = m.queueList.Update(msg)
			if after, _ := m.queueList.Selected(); after.ID != before.ID {
				m.refreshQueueTasks()
			}
		} else {
			m.queueTasks, cmd = m.queueTasks.Update(msg)
		}
	case StateWeek:
		m.weekModel, cmd = m.weekModel.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateInbox:
		return m.inbox.Filtering()
	case StateQueues:
		return m.queueList.Filtering() || m.queueTasks.Filtering()
	}
	return false
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if m.state == StateConfirmEmpty {
			m.emptyAll()
		} else {
			m.deletePending()
		}
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Cancel):
		m.pending = deleteTarget{}
		m.state = m.previousState
	}
	return m, nil
}

func (m *Model) confirmDelete(target deleteTarget) {
	m.pending = target
	m.previousState = m.state
	m.state = StateConfirmDelete
}

func (m *Model) deletePending() {
	defer func() { m.pending = deleteTarget{} }()
	switch {
	case m.pending.task != nil:
		if err := m.svc.DeleteTask(m.pending.task.ID); err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Deleted task " + m.pending.task.Title)
	case m.pending.queue != nil:
		if err := m.svc.DeleteQueue(m.pending.queue.ID); err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Deleted queue " + m.pending.queue.Title)
	}
	m.refresh()
}

func (m *Model) emptyAll() {
	n, err := m.svc.EmptyAllQueues()
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Returned %d task(s) to the inbox", n))
	m.refresh()
}

func (m *Model) toggleComplete(t models.Task) {
	var err error
	if t.Status == models.TaskStatusCompleted {
		_, err = m.svc.Uncomplete(t.ID)
	} else {
		_, err = m.svc.Complete(t.ID)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Updated " + t.Title)
	m.refresh()
}

func (m *Model) unassign(t models.Task) {
	if t.QueueID() == "" {
		m.setError(errInboxTask)
		return
	}
	if _, err := m.svc.UnassignFromQueue(t.ID, t.QueueID()); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Moved " + t.Title + " to the inbox")
	m.refresh()
}

// handleComponentMsg reacts to the intents emitted by the list components.
func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		return true, m.newTaskForm()
	case tasklist.AssignTaskMsg:
		if len(m.svc.Queues()) == 0 {
			m.setError(errors.New("create a queue first"))
			return true, nil
		}
		return true, m.newAssignForm(msg.Task)
	case tasklist.UnassignTaskMsg:
		m.unassign(msg.Task)
	case tasklist.ToggleCompleteMsg:
		m.toggleComplete(msg.Task)
	case tasklist.DeleteTaskMsg:
		t := msg.Task
		m.confirmDelete(deleteTarget{task: &t})
	case queuelist.AddQueueMsg:
		return true, m.newQueueForm()
	case queuelist.DeleteQueueMsg:
		q := msg.Queue
		m.confirmDelete(deleteTarget{queue: &q})
	default:
		return false, nil
	}
	return true, nil
}

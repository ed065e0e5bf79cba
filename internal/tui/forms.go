package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
)

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func positiveMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of minutes")
	}
	return nil
}

func hexColor(s string) error {
	if !models.ValidColor(strings.TrimSpace(s)) {
		return errors.New("use #RRGGBB")
	}
	return nil
}

func (m *Model) openForm(state SessionState, form *huh.Form) tea.Cmd {
	if m.state < StateAddTask {
		m.previousState = m.state
	}
	m.state = state
	m.form = form
	return m.form.Init()
}

func (m *Model) newTaskForm() tea.Cmd {
	m.taskForm = &TaskFormModel{Duration: strconv.Itoa(constants.DefaultTaskDurationMin)}
	return m.openForm(StateAddTask, huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.taskForm.Title).
				Validate(required),
			huh.NewInput().
				Title("Duration (minutes)").
				Value(&m.taskForm.Duration).
				Validate(positiveMinutes),
		),
	))
}

func (m *Model) newQueueForm() tea.Cmd {
	m.queueForm = &QueueFormModel{Color: constants.DefaultQueueColor}
	return m.openForm(StateAddQueue, huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.queueForm.Title).
				Validate(required),
			huh.NewInput().
				Title("Color").
				Value(&m.queueForm.Color).
				Validate(hexColor),
		),
	))
}

func (m *Model) newAssignForm(t models.Task) tea.Cmd {
	queues := m.svc.Queues()
	options := make([]huh.Option[string], 0, len(queues))
	for _, q := range queues {
		options = append(options, huh.NewOption(q.Title, q.ID))
	}
	m.assignForm = &AssignFormModel{Task: t, QueueID: t.QueueID()}
	return m.openForm(StateAssign, huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Assign \"" + t.Title + "\" to").
				Options(options...).
				Value(&m.assignForm.QueueID),
		),
	))
}

// submitForm applies the completed form to the service.
func (m *Model) submitForm() {
	switch m.state {
	case StateAddTask:
		minutes, _ := strconv.Atoi(strings.TrimSpace(m.taskForm.Duration))
		t, err := m.svc.CreateTask(strings.TrimSpace(m.taskForm.Title), minutes)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Added task " + t.Title)
	case StateAddQueue:
		q, err := m.svc.CreateQueue(strings.TrimSpace(m.queueForm.Title), strings.TrimSpace(m.queueForm.Color))
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Added queue " + q.Title)
	case StateAssign:
		res, err := m.svc.AssignToQueue(m.assignForm.Task.ID, m.assignForm.QueueID)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("Assigned " + res.Task.Title + " to " + res.Queue.Title)
	}
	m.refresh()
}

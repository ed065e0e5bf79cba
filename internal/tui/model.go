package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/service"
	"github.com/julianstephens/bium/internal/tui/components/queuelist"
	"github.com/julianstephens/bium/internal/tui/components/tasklist"
	"github.com/julianstephens/bium/internal/tui/components/week"
)

type SessionState int

const (
	StateInbox SessionState = iota
	StateQueues
	StateWeek
	StateAddTask
	StateAddQueue
	StateAssign
	StateConfirmDelete
	StateConfirmEmpty
)

var tabs = []struct {
	name  string
	state SessionState
}{
	{"Inbox", StateInbox},
	{"Queues", StateQueues},
	{"Week", StateWeek},
}

type pane int

const (
	paneQueues pane = iota
	paneTasks
)

type TaskFormModel struct {
	Title    string
	Duration string
}

type QueueFormModel struct {
	Title string
	Color string
}

type AssignFormModel struct {
	Task    models.Task
	QueueID string
}

// deleteTarget is the task or queue awaiting confirmation.
type deleteTarget struct {
	task  *models.Task
	queue *models.Queue
}

type Model struct {
	svc           *service.Service
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	inbox         tasklist.Model
	queueList     queuelist.Model
	queueTasks    tasklist.Model
	weekModel     week.Model
	focus         pane
	form          *huh.Form
	taskForm      *TaskFormModel
	queueForm     *QueueFormModel
	assignForm    *AssignFormModel
	pending       deleteTarget
	status        string
	err           error
	width         int
	height        int
	quitting      bool
}

func NewModel(svc *service.Service) Model {
	m := Model{
		svc:        svc,
		state:      StateInbox,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inbox:      tasklist.New(tasklist.InboxKeyMap(), "Inbox is empty.\n  Press 'a' to add a task.", 0, 0),
		queueList:  queuelist.New(0, 0),
		queueTasks: tasklist.New(tasklist.DefaultKeyMap(), "No tasks in this queue.", 0, 0),
		weekModel:  week.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every view from the service.
func (m *Model) refresh() {
	m.inbox.SetTasks(m.svc.InboxTasks())

	queues := m.svc.Queues()
	items := make([]queuelist.Item, 0, len(queues))
	for _, q := range queues {
		load, err := m.svc.QueueLoad(q.ID)
		if err != nil {
			continue
		}
		items = append(items, queuelist.Item{Queue: q, Load: load})
	}
	m.queueList.SetQueues(items)
	m.refreshQueueTasks()

	w := m.svc.Week()
	m.weekModel.SetWeek(w.WeekKey, w.Days)
}

func (m *Model) refreshQueueTasks() {
	if q, ok := m.queueList.Selected(); ok {
		m.queueTasks.SetTasks(m.svc.TasksForQueue(q.ID))
		return
	}
	m.queueTasks.SetTasks(nil)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.err = nil
}

func (m *Model) setError(err error) {
	m.status = ""
	m.err = err
}

func (m *Model) resize() {
	contentHeight := max(0, m.height-8)
	m.inbox.SetSize(m.width-4, contentHeight)
	half := max(0, m.width/2-4)
	m.queueList.SetSize(half, contentHeight-2)
	m.queueTasks.SetSize(max(0, m.width-half-10), contentHeight-2)
	m.weekModel.SetSize(m.width-4, contentHeight)
	m.help.Width = m.width
}

package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/planner"
)

const barWidth = 10

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("205"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	weekKey  string
	days     []planner.DayPlan
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetWeek(weekKey string, days []planner.DayPlan) {
	m.weekKey = weekKey
	m.days = days
	m.Render()
}

// Bar draws a fill bar for pct, capped at full width.
func Bar(pct int) string {
	filled := min(barWidth, max(0, pct*barWidth/100))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func (m *Model) Render() {
	if len(m.days) == 0 {
		m.viewport.SetContent("No week loaded.")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Week %s\n", m.weekKey)
	for _, day := range m.days {
		header := fmt.Sprintf("%s %s", day.Day.DayName, day.Day.Date)
		if day.Day.IsToday {
			b.WriteString("\n" + todayStyle.Render(header+" (today)") + "\n")
		} else {
			b.WriteString("\n" + dayStyle.Render(header) + "\n")
		}
		if len(day.Blocks) == 0 {
			b.WriteString("  " + emptyStyle.Render("no blocks") + "\n")
			continue
		}
		for _, block := range day.Blocks {
			queue := lipgloss.NewStyle().
				Foreground(lipgloss.Color(block.Queue.Color)).
				Width(18).
				Render(block.Queue.Title)
			fill := lipgloss.NewStyle().
				Foreground(lipgloss.Color(block.Load.Color)).
				Render(fmt.Sprintf("%s %3d%%", Bar(block.Load.Percentage), block.Load.Percentage))
			fmt.Fprintf(&b, "  %s%s %s %s / %s\n",
				timeStyle.Render(block.Template.StartTime+"-"+block.Template.EndTime),
				queue,
				fill,
				capacity.FormatDuration(block.Load.UsedMinutes),
				capacity.FormatDuration(block.Load.TotalMinutes),
			)
		}
	}
	m.viewport.SetContent(b.String())
}

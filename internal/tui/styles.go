package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bium/internal/constants"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.FillDangerColor)).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.FillSafeColor))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("205"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(constants.FillWarningColor)).
			Padding(1, 3)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	overlayBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("220"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	paneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("238"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("170")).
			Padding(1, 2)

	operationStyles = map[string]lipgloss.Style{
		"create": lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		"modify": lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"remove": lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		"rename": lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func operationStyle(op string) lipgloss.Style {
	if style, ok := operationStyles[op]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

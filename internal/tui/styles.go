package tui

import "github.com/charmbracelet/lipgloss"

// The original look is brutalist monochrome: hard borders, lowercase
// labels, no color beyond emphasis.
var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 2).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				Padding(0, 1)

	postTitleStyle = lipgloss.NewStyle().Bold(true)

	metaStyle = lipgloss.NewStyle().Faint(true)

	tagStyle = lipgloss.NewStyle().Reverse(true)

	likedStyle = lipgloss.NewStyle().Bold(true)

	statusStyle = lipgloss.NewStyle().Faint(true)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Faint(true)
)

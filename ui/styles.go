package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaBackground = lipgloss.AdaptiveColor{Light: "0", Dark: "0"}
	DraculaForeground = lipgloss.AdaptiveColor{Light: "255", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "14", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "10", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	// Header
	LogoStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	CountStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	// Category chips
	ActiveChipStyle = lipgloss.NewStyle().
			Foreground(DraculaBackground).
			Background(DraculaPink).
			Bold(true).
			Padding(0, 1)
	InactiveChipStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Padding(0, 1)
	ChipArrowStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(DraculaPurple)

	// Empty state
	EmptyTitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true)
	EmptyHintStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	// Viewer
	BackStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan)
	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DraculaPurple).
			Padding(1, 2)
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	LinkStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Underline(true)
	ReadyStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)
)

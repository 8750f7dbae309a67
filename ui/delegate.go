package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/qyinm/jamemart/types"
)

// GameDelegate renders a game as a two-line card: title with its category
// badge, then the description cut to the list width.
type GameDelegate struct{}

func (d GameDelegate) Height() int {
	return 2
}

func (d GameDelegate) Spacing() int {
	return 1
}

func (d GameDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d GameDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	game, ok := item.(types.Game)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	marker := "  "
	if isSelected {
		marker = "▸ "
	}
	badge := "[" + game.Category() + "]"

	// Format: "▸ Title                               [Category]"
	availableForName := m.Width() - lipgloss.Width(marker) - lipgloss.Width(badge) - 1
	nameStr := padRight(truncateWidth(game.Name(), availableForName), availableForName)

	var line1 string
	if isSelected {
		markerStyle := lipgloss.NewStyle().Foreground(DraculaPink).Bold(true)
		nameStyle := lipgloss.NewStyle().Foreground(DraculaPink).Bold(true)
		line1 = markerStyle.Render(marker) + nameStyle.Render(nameStr) + " " + BadgeStyle.Bold(true).Render(badge)
	} else {
		nameStyle := lipgloss.NewStyle().Foreground(DraculaCyan)
		line1 = marker + nameStyle.Render(nameStr) + " " + BadgeStyle.Render(badge)
	}

	// Line 2: description (indented, dimmed unless selected)
	indent := "  "
	desc := truncateWidth(game.Summary(), m.Width()-len(indent))
	descStyle := lipgloss.NewStyle().Foreground(DraculaComment)
	if isSelected {
		descStyle = lipgloss.NewStyle().Foreground(DraculaForeground)
	}
	line2 := indent + descStyle.Render(desc)

	fmt.Fprint(w, line1+"\n"+line2)
}

// truncateWidth cuts s to at most width terminal cells, ending in "…" when
// anything was dropped.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return strings.TrimRight(b.String(), " ") + "…"
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

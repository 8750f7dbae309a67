package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Message types for async operations

// frameLoadedMsg is a load ping for a game id from the web player.
type frameLoadedMsg struct {
	id string
}

// loadTimeoutMsg ends a loading placeholder. seq ties it to one selection so
// a stale tick never touches a later one.
type loadTimeoutMsg struct {
	seq int
}

type openedMsg struct {
	url string
	err error
}

type copiedMsg struct {
	text string
	err  error
}

// waitForLoad blocks on the player's load channel. Update re-issues it after
// every ping; a closed channel ends the loop.
func waitForLoad(loads <-chan string) tea.Cmd {
	if loads == nil {
		return nil
	}
	return func() tea.Msg {
		id, ok := <-loads
		if !ok {
			return nil
		}
		return frameLoadedMsg{id: id}
	}
}

func loadTimeout(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return loadTimeoutMsg{seq: seq}
	})
}

func openURL(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

func copyText(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{text: text, err: write(text)}
	}
}

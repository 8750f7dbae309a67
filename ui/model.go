package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	webbrowser "github.com/cli/browser"
	"github.com/qyinm/jamemart/browser"
	"github.com/qyinm/jamemart/types"
	"github.com/qyinm/jamemart/web"
)

const (
	logoText           = "◆ Jame Mart Games"
	suggestionCount    = 3
	defaultLoadTimeout = 15 * time.Second

	// border + padding + state line + link line
	frameHeight = 6
)

// frameState tracks the loading placeholder for the selected game.
type frameState int

const (
	frameIdle frameState = iota
	frameLoading
	frameReady
	frameTimedOut
)

// Options wires the model to the web player and the desktop.
type Options struct {
	// PlayerBaseURL is the root of the web player. Empty means no player is
	// running and games open at their embed URL directly.
	PlayerBaseURL string
	// Loads receives game ids whose frame finished loading in the player.
	Loads       <-chan string
	LoadTimeout time.Duration
	OpenURL     func(string) error
	CopyText    func(string) error
}

// Model is the main TUI model
type Model struct {
	session  *browser.Session
	list     list.Model
	search   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	playerBase  string
	loads       <-chan string
	loadTimeout time.Duration
	openURL     func(string) error
	copyText    func(string) error

	frame     frameState
	loadSeq   int
	width     int
	height    int
	err       error
	statusMsg string
}

// NewModel creates a Model browsing source.
func NewModel(source types.GameSource, opts Options) Model {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = webbrowser.OpenURL
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	l := list.New([]list.Item{}, GameDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search games..."
	ti.PromptStyle = lipgloss.NewStyle().Foreground(DraculaPink)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(DraculaPink)

	m := Model{
		session:     browser.NewSession(source),
		list:        l,
		search:      ti,
		viewport:    viewport.New(0, 0),
		spinner:     s,
		help:        help.New(),
		keys:        keys,
		playerBase:  opts.PlayerBaseURL,
		loads:       opts.Loads,
		loadTimeout: opts.LoadTimeout,
		openURL:     opts.OpenURL,
		copyText:    opts.CopyText,
		statusMsg:   "Ready",
	}
	m.refreshList()
	return m
}

// Session exposes the browsing state.
func (m Model) Session() *browser.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return waitForLoad(m.loads)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		// the logo is the home control
		if msg.Y == 0 && msg.X < lipgloss.Width(LogoStyle.Render(logoText)) {
			m.goHome()
			return m, nil
		}
		if idx, ok := m.cardAt(msg.Y); ok {
			m.list.Select(idx)
			return m.selectCurrent()
		}
		return m, nil

	case frameLoadedMsg:
		waiting := m.frame == frameLoading || m.frame == frameTimedOut
		if g, ok := m.session.Selected(); ok && g.ID() == msg.id && waiting {
			m.frame = frameReady
			m.statusMsg = g.Name() + " loaded"
		}
		return m, waitForLoad(m.loads)

	case loadTimeoutMsg:
		if msg.seq == m.loadSeq && m.frame == frameLoading {
			m.frame = frameTimedOut
		}
		return m, nil

	case spinner.TickMsg:
		if m.frame != frameLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case openedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("open %s: %w", msg.url, msg.err)
			if m.frame == frameLoading {
				m.frame = frameIdle
			}
			return m, nil
		}
		m.err = nil
		m.statusMsg = "Opened " + msg.url
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("copy link: %w", msg.err)
			return m, nil
		}
		m.err = nil
		m.statusMsg = "Copied " + msg.text
		return m, nil

	case tea.KeyMsg:
		if m.session.IsViewing() {
			return m.updateViewing(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyEnter:
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.session.Search() {
			m.session.SetSearch(m.search.Value())
			m.refreshList()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextCat):
		m.cycleCategory(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCat):
		m.cycleCategory(-1)
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.resetFilters()
		return m, nil
	case key.Matches(msg, m.keys.Home), key.Matches(msg, m.keys.Back):
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m.selectCurrent()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g, _ := m.session.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.session.Back()
		m.stopLoading()
		m.statusMsg = "Back to library"
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.goHome()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.playerBase == "" {
			return m, openURL(m.openURL, g.IframeURL())
		}
		return m, m.startPlayer(g)
	case key.Matches(msg, m.keys.Copy):
		return m, copyText(m.copyText, m.playerURL(g))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	g, ok := m.list.SelectedItem().(types.Game)
	if !ok || !m.session.Select(g) {
		return m, nil
	}
	m.err = nil
	m.viewport.SetContent(m.renderDetail(g))
	m.viewport.GotoTop()

	if m.playerBase == "" {
		m.frame = frameIdle
		m.statusMsg = "Press o to play " + g.Name()
		return m, nil
	}
	return m, m.startPlayer(g)
}

// cardAt maps a screen row to the index of the card drawn there. Rows
// between cards and below the last one match nothing.
func (m Model) cardAt(y int) (int, bool) {
	if m.session.IsViewing() || m.session.Empty() {
		return 0, false
	}
	top := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.search.View()) + lipgloss.Height(m.renderChips())
	row := y - top
	if row < 0 {
		return 0, false
	}
	d := GameDelegate{}
	stride := d.Height() + d.Spacing()
	if row%stride >= d.Height() {
		return 0, false
	}
	slot := row / stride
	if slot >= m.list.Paginator.PerPage {
		return 0, false
	}
	idx := m.list.Paginator.Page*m.list.Paginator.PerPage + slot
	if idx >= len(m.list.VisibleItems()) {
		return 0, false
	}
	return idx, true
}

// startPlayer opens the player page for g and arms the loading placeholder.
func (m *Model) startPlayer(g types.Game) tea.Cmd {
	m.loadSeq++
	m.frame = frameLoading
	return tea.Batch(
		m.spinner.Tick,
		loadTimeout(m.loadTimeout, m.loadSeq),
		openURL(m.openURL, m.playerURL(g)),
	)
}

func (m *Model) stopLoading() {
	m.loadSeq++
	m.frame = frameIdle
}

func (m *Model) goHome() {
	m.session.Home()
	m.search.Blur()
	m.stopLoading()
}

func (m *Model) cycleCategory(delta int) {
	cats := m.session.Categories()
	if len(cats) == 0 {
		return
	}
	idx := 0
	for i, c := range cats {
		if c == m.session.Category() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(cats)) % len(cats)
	m.session.SetCategory(cats[idx])
	m.refreshList()
}

func (m *Model) resetFilters() {
	m.session.ResetFilters()
	m.search.SetValue("")
	m.refreshList()
	m.statusMsg = "Filters cleared"
}

func (m *Model) refreshList() {
	visible := m.session.Visible()
	items := make([]list.Item, 0, len(visible))
	for _, g := range visible {
		items = append(items, g)
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m Model) playerURL(g types.Game) string {
	if m.playerBase == "" {
		return g.IframeURL()
	}
	return web.GameURL(m.playerBase, g.ID())
}

func (m Model) View() string {
	var body string
	if g, ok := m.session.Selected(); ok {
		body = m.viewViewer(g)
	} else {
		body = m.viewBrowser()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m Model) renderHeader() string {
	logo := LogoStyle.Render(logoText)
	count := CountStyle.Render(fmt.Sprintf("%d of %d games ", len(m.session.Visible()), m.session.Total()))
	gap := m.width - lipgloss.Width(logo) - lipgloss.Width(count)
	if gap < 1 {
		gap = 1
	}
	return logo + strings.Repeat(" ", gap) + count
}

func (m Model) viewBrowser() string {
	var content string
	if m.session.Empty() {
		content = m.renderEmpty()
	} else {
		content = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.search.View(), m.renderChips(), content)
}

func (m Model) renderEmpty() string {
	lines := []string{
		"",
		EmptyTitleStyle.Render("No games found"),
		EmptyHintStyle.Render("Try adjusting your search or category filter."),
		EmptyHintStyle.Render("Press c to clear filters."),
	}
	if sugg := m.session.Suggestions(suggestionCount); len(sugg) > 0 {
		names := make([]string, 0, len(sugg))
		for _, g := range sugg {
			names = append(names, g.Name())
		}
		lines = append(lines, "", "Did you mean "+strings.Join(names, ", ")+"?")
	}
	return lipgloss.NewStyle().Height(m.list.Height()).Render(strings.Join(lines, "\n"))
}

// renderChips draws the category chips on one line, scrolled so the
// selected chip is always visible.
func (m Model) renderChips() string {
	cats := m.session.Categories()
	chips := make([]string, len(cats))
	active := 0
	for i, c := range cats {
		if c == m.session.Category() {
			chips[i] = ActiveChipStyle.Render(c)
			active = i
		} else {
			chips[i] = InactiveChipStyle.Render(c)
		}
	}
	if m.width <= 0 {
		return strings.Join(chips, " ")
	}

	// reserve room for both scroll arrows
	room := m.width - 4
	start, end := active, active+1
	used := lipgloss.Width(chips[active])
	for start > 0 && used+1+lipgloss.Width(chips[start-1]) <= room {
		start--
		used += 1 + lipgloss.Width(chips[start])
	}
	for end < len(chips) && used+1+lipgloss.Width(chips[end]) <= room {
		used += 1 + lipgloss.Width(chips[end])
		end++
	}

	left, right := "  ", "  "
	if start > 0 {
		left = ChipArrowStyle.Render("‹ ")
	}
	if end < len(chips) {
		right = ChipArrowStyle.Render(" ›")
	}
	return left + strings.Join(chips[start:end], " ") + right
}

func (m Model) viewViewer(g types.Game) string {
	bar := BackStyle.Render("← Back to Library (esc)") + "  " + BadgeStyle.Render("["+g.Category()+"]")

	var state string
	switch {
	case m.playerBase == "":
		state = "Press o to open the game in your browser."
	case m.frame == frameLoading:
		state = m.spinner.View() + " Loading game..."
	case m.frame == frameReady:
		state = ReadyStyle.Render("● Playing in your browser")
	case m.frame == frameTimedOut:
		state = EmptyHintStyle.Render("The player has not reported back. Press o to open it again.")
	default:
		state = "Press o to open the player."
	}

	frameWidth := m.width - 2
	if frameWidth < 0 {
		frameWidth = 0
	}
	link := LinkStyle.Render(truncateWidth(m.playerURL(g), frameWidth-6))
	frame := FrameStyle.Width(frameWidth).Render(state + "\n" + link)

	return lipgloss.JoinVertical(lipgloss.Left, bar, frame, m.viewport.View())
}

func (m Model) renderDetail(g types.Game) string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	body := lipgloss.NewStyle().Width(width).Render(g.Summary())
	return DetailTitleStyle.Render(g.Name()) + "\n\n" + body + "\n\n" +
		StatusBarStyle.Render("Embed: "+g.IframeURL())
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return ErrorStyle.Render(m.err.Error())
	}
	return StatusBarStyle.Render(m.statusMsg)
}

func (m Model) renderHelp() string {
	if m.session.IsViewing() {
		return m.help.View(viewerKeys{m.keys})
	}
	return m.help.View(m.keys)
}

// resizePanes adjusts the dimensions of list and viewport based on window size
func (m *Model) resizePanes() {
	// header + status
	chrome := 2 + lipgloss.Height(m.renderHelp())

	// search + chips
	listHeight := m.height - chrome - 2
	if listHeight < 0 {
		listHeight = 0
	}
	m.list.SetSize(m.width, listHeight)
	m.search.Width = m.width - lipgloss.Width(m.search.Prompt) - 1
	m.help.Width = m.width

	// back bar + frame
	vpHeight := m.height - chrome - 1 - frameHeight
	if vpHeight < 0 {
		vpHeight = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
	if g, ok := m.session.Selected(); ok {
		m.viewport.SetContent(m.renderDetail(g))
	}
}

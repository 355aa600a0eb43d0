package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/player"
	"github.com/desertthunder/tuneflow/internal/shared"
)

// Debounce is how long typing must pause before the keyword is searched.
const Debounce = 300 * time.Millisecond

// Focus identifies the panel receiving key presses.
type Focus int

const (
	SearchFocus Focus = iota
	ResultsFocus
	PlaylistFocus
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	state    *app.State
	searcher *app.Searcher
	launcher player.Launcher
	logger   *log.Logger
	playback player.Playback
	focus    Focus
	seq      int
	width    int
	height   int
	input    textinput.Model
	results  list.Model
	playlist list.Model
	spinner  spinner.Model
	palette  *Palette
	status   string
	help     help.Model
	keys     keyMap
}

// Options holds the dependencies of a [Model].
type Options struct {
	State    *app.State
	Searcher *app.Searcher
	Launcher player.Launcher
	Logger   *log.Logger
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	input := textinput.New()
	input.Placeholder = "Search songs or albums..."
	input.Prompt = "♪ "
	input.CharLimit = 120
	input.Focus()

	m := &Model{
		ctx:      ctx,
		state:    opts.State,
		searcher: opts.Searcher,
		launcher: opts.Launcher,
		logger:   opts.Logger,
		focus:    SearchFocus,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	m.applyTheme()
	m.results = list.New(nil, m.palette.delegate(), 0, 0)
	m.playlist = list.New(nil, m.palette.delegate(), 0, 0)
	for _, l := range []*list.Model{&m.results, &m.playlist} {
		l.SetShowTitle(false)
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.DisableQuitKeybindings()
	}
	m.sync()
	return m
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.abort) {
			return m, m.quit()
		}
		switch m.focus {
		case SearchFocus:
			return m.handleSearchKeys(msg)
		case ResultsFocus:
			return m.handleResultKeys(msg)
		case PlaylistFocus:
			return m.handlePlaylistKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgKeywordSettled:
		if seq := msg.data.(int); seq != m.seq {
			return m, nil
		}
		return m, m.search(m.state.SetKeyword(m.input.Value()))

	case MsgSearchResolved:
		resp := msg.data.(app.Response)
		if !m.state.Resolve(resp) {
			m.logger.Debug("dropped stale search response", "token", resp.Token)
			return m, nil
		}
		if resp.Err != nil {
			m.logger.Warn("search failed", "keyword", m.state.Searched(), "error", resp.Err)
		}
		m.sync()
		return m, nil

	case MsgPreviewEnded:
		p := msg.data.(player.Playback)
		if p != m.playback {
			return m, nil
		}
		m.playback = nil
		m.state.PreviewEnded(p.URL())
		m.sync()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(ResultsFocus)
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(PlaylistFocus)
	case key.Matches(msg, m.keys.media), key.Matches(msg, m.keys.sort), key.Matches(msg, m.keys.theme):
		return m, m.handleSelectors(msg)
	case msg.Type == tea.KeyEnter:
		m.seq++
		return m, m.search(m.state.SetKeyword(m.input.Value()))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.seq++
	seq := m.seq
	settle := tea.Tick(Debounce, func(time.Time) tea.Msg { return keywordSettledMsg(seq) })
	return m, tea.Batch(cmd, settle)
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(PlaylistFocus)
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.search):
		return m, m.setFocus(SearchFocus)
	case key.Matches(msg, m.keys.media), key.Matches(msg, m.keys.sort), key.Matches(msg, m.keys.theme):
		return m, m.handleSelectors(msg)
	case key.Matches(msg, m.keys.add):
		if row, ok := m.results.SelectedItem().(resultItem); ok {
			m.report(m.state.Add(m.ctx, row.row.Item))
			m.sync()
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		if row, ok := m.results.SelectedItem().(resultItem); ok {
			return m, m.play(row.row.Item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.search):
		return m, m.setFocus(SearchFocus)
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(ResultsFocus)
	case key.Matches(msg, m.keys.media), key.Matches(msg, m.keys.sort), key.Matches(msg, m.keys.theme):
		return m, m.handleSelectors(msg)
	case key.Matches(msg, m.keys.remove):
		if entry, ok := m.playlist.SelectedItem().(playlistItem); ok {
			m.report(m.state.Remove(m.ctx, entry.item.ID))
			m.sync()
		}
		return m, nil
	case key.Matches(msg, m.keys.play), msg.Type == tea.KeyEnter:
		if entry, ok := m.playlist.SelectedItem().(playlistItem); ok {
			return m, m.play(entry.item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlist, cmd = m.playlist.Update(msg)
	return m, cmd
}

// handleSelectors cycles the media filter or sort key, or flips the theme.
func (m *Model) handleSelectors(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.media):
		return m.search(m.state.SetMedia(m.state.Query().Media.Next()))
	case key.Matches(msg, m.keys.sort):
		return m.search(m.state.SetSort(m.state.Query().Sort.Next()))
	case key.Matches(msg, m.keys.theme):
		m.state.ToggleTheme()
		m.applyTheme()
		m.results.SetDelegate(m.palette.delegate())
		m.playlist.SetDelegate(m.palette.delegate())
	}
	return nil
}

// search starts req when the state asked for one, superseding any search in flight.
func (m *Model) search(req app.Request, ok bool) tea.Cmd {
	m.sync()
	if !ok {
		m.searcher.Cancel()
		return nil
	}
	m.logger.Debug("searching", "keyword", req.Query.Keyword, "media", req.Query.Media, "sort", req.Query.Sort)
	return tea.Batch(m.spinner.Tick, m.runSearch(req))
}

func (m *Model) runSearch(req app.Request) tea.Cmd {
	return func() tea.Msg {
		return searchResolvedMsg(m.searcher.Run(m.ctx, req))
	}
}

// play toggles the preview of item, stopping whatever was playing.
func (m *Model) play(item models.Item) tea.Cmd {
	if !item.Playable() {
		m.status = "No preview available for this item."
		return nil
	}

	m.status = ""
	m.stopPlayback()
	change := m.state.Play(item.PreviewURL)
	defer m.sync()
	if change != app.ChangeStarted {
		return nil
	}

	p, err := m.launcher.Start(m.ctx, item.PreviewURL)
	if err != nil {
		m.logger.Error("failed to start preview", "url", item.PreviewURL, "error", err)
		m.state.PreviewEnded(item.PreviewURL)
		m.status = "Could not start the preview player."
		return nil
	}

	m.playback = p
	return waitForEnd(p)
}

func waitForEnd(p player.Playback) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return previewEndedMsg(p)
	}
}

func (m *Model) stopPlayback() {
	if m.playback == nil {
		return
	}
	if err := m.playback.Stop(); err != nil {
		m.logger.Warn("failed to stop preview", "error", err)
	}
	m.playback = nil
}

func (m *Model) quit() tea.Cmd {
	m.stopPlayback()
	m.state.StopPreview()
	m.searcher.Cancel()
	return tea.Quit
}

func (m *Model) report(err error) {
	if err != nil {
		m.logger.Error("playlist update failed", "error", err)
		m.status = "Could not save the playlist."
		return
	}
	m.status = ""
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == SearchFocus {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) applyTheme() {
	m.palette = paletteFor(m.state.Theme())
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(m.palette.accent)
	m.input.TextStyle = m.palette.body
	m.spinner.Style = lipgloss.NewStyle().Foreground(m.palette.accent)
}

// sync copies the state into the list models.
func (m *Model) sync() {
	snap := m.state.Snapshot()

	rows := make([]list.Item, len(snap.Results))
	for i, row := range snap.Results {
		rows[i] = resultItem{row: row}
	}
	m.results.SetItems(rows)

	entries := make([]list.Item, len(snap.Playlist))
	for i, item := range snap.Playlist {
		entries[i] = playlistItem{item: item, playing: item.PreviewURL != "" && item.PreviewURL == snap.Preview}
	}
	m.playlist.SetItems(entries)
}

func (m *Model) resize() {
	w := max((m.width-4)/2-4, 20)
	h := max(m.height-12, 4)
	m.results.SetSize(w, h)
	m.playlist.SetSize(w, h)
	m.input.Width = max(m.width-8, 20)
}

// View renders the UI.
func (m *Model) View() string {
	snap := m.state.Snapshot()
	p := m.palette

	header := p.title.Render("TuneFlow") + "  " + p.help.Render(fmt.Sprintf("%s theme", snap.Theme))

	search := m.panel(SearchFocus).Render(fmt.Sprintf("%s\n%s", m.input.View(), m.renderSelectors(snap)))
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.panel(ResultsFocus).Render(m.renderResults(snap)),
		m.panel(PlaylistFocus).Render(m.renderPlaylist(snap)),
	)

	var footer []string
	if snap.Preview != "" {
		footer = append(footer, p.ok.Render("▶ Now playing: ")+p.body.Render(snap.Preview))
	}
	if m.status != "" {
		footer = append(footer, p.warn.Render(m.status))
	}
	footer = append(footer, m.help.View(m.keys))

	return strings.Join([]string{header, search, body, strings.Join(footer, "\n")}, "\n")
}

func (m *Model) panel(f Focus) lipgloss.Style {
	if m.focus == f {
		return m.palette.focus
	}
	return m.palette.panel
}

func (m *Model) renderSelectors(snap app.Snapshot) string {
	return m.palette.help.Render(fmt.Sprintf("Media: %s (ctrl+f)   Sort: %s (ctrl+s)", snap.Media.Label(), snap.Sort.Label()))
}

func (m *Model) renderResults(snap app.Snapshot) string {
	p := m.palette
	title := p.title.Render("Results")

	switch {
	case snap.Loading:
		return fmt.Sprintf("%s\n%s Searching...", title, m.spinner.View())
	case snap.Message != "":
		return fmt.Sprintf("%s\n%s", title, p.err.Render(snap.Message))
	case snap.NoMatches():
		return fmt.Sprintf("%s\n%s", title, p.help.Render(fmt.Sprintf("No results for %q", snap.Searched)))
	case len(snap.Results) == 0:
		return fmt.Sprintf("%s\n%s", title, p.help.Render("Type to search the catalog."))
	}
	return fmt.Sprintf("%s\n%s", title, m.results.View())
}

func (m *Model) renderPlaylist(snap app.Snapshot) string {
	p := m.palette
	title := p.title.Render(fmt.Sprintf("Playlist (%d)", len(snap.Playlist)))
	if len(snap.Playlist) == 0 {
		return fmt.Sprintf("%s\n%s", title, p.help.Render("Your playlist is empty."))
	}
	return fmt.Sprintf("%s\n%s", title, m.playlist.View())
}

package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/multiplayer"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// Spectator layout constants
const (
	headerLines   = 2 // Title + status
	footerLines   = 1 // Help
	staleAfter    = 2 * time.Second
	minArenaWidth = 12
)

// sessionClosedMsg is delivered when the coordinator side of the session ends.
type sessionClosedMsg struct{}

// SpectatorModel is the Bubble Tea model showing the live arena.
type SpectatorModel struct {
	session *multiplayer.ChannelSession
	arena   ArenaSize
	screen  *core.Screen
	table   table.Model
	help    help.Model
	keys    SpectatorKeyMap

	width  int
	height int

	state       protocol.StateUpdate
	phase       string
	countdown   int
	remaining   int
	lastResults []protocol.ScoreEntry
	lastUpdate  time.Time
	now         time.Time

	closed   bool
	quitting bool
}

// NewSpectatorModel creates a spectator view fed by session.
func NewSpectatorModel(session *multiplayer.ChannelSession, arena ArenaSize, width, height int) SpectatorModel {
	h := help.New()
	h.ShowAll = false

	m := SpectatorModel{
		session: session,
		arena:   arena,
		screen:  core.NewScreen(1, 1),
		help:    h,
		keys:    DefaultSpectatorKeyMap(),
		phase:   "idle",
		now:     time.Now(),
	}
	m.resize(width, height)
	return m
}

// Init starts listening for arena events and the clock.
func (m SpectatorModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tickCmd(1))
}

// waitForEvent returns a command that waits for the next coordinator event.
func (m SpectatorModel) waitForEvent() tea.Cmd {
	if m.session == nil {
		return nil
	}
	events, done := m.session.Events(), m.session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			return sessionClosedMsg{}
		}
	}
}

// Update handles messages.
func (m SpectatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.now = time.Time(msg)
		return m, tickCmd(1)

	case sessionClosedMsg:
		m.closed = true
		return m, tea.Quit

	case multiplayer.InitEvent:
		m.applyInit(msg.State)
		return m, m.waitForEvent()

	case multiplayer.StateUpdateEvent:
		m.state = msg.State
		m.lastUpdate = m.now
		if m.phase != "ended" {
			m.table.SetRows(scoreRows(m.state.Players))
		}
		return m, m.waitForEvent()

	case multiplayer.CountdownEvent:
		m.phase = "countdown"
		m.countdown = msg.Seconds
		return m, m.waitForEvent()

	case multiplayer.GameStartEvent:
		m.phase = "active"
		m.lastResults = nil
		return m, m.waitForEvent()

	case multiplayer.TimerUpdateEvent:
		m.phase = "active"
		m.remaining = msg.Remaining
		return m, m.waitForEvent()

	case multiplayer.GameOverEvent:
		m.phase = "ended"
		m.lastResults = msg.Results
		m.table.SetRows(resultRows(msg.Results))
		return m, m.waitForEvent()

	case multiplayer.SessionEvent:
		// Events the view does not display
		return m, m.waitForEvent()
	}

	return m, nil
}

func (m SpectatorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyInit replaces the view state with a full snapshot, keeping join order
// so scoreboard ties rank the same as in later stateUpdates.
func (m *SpectatorModel) applyInit(gs protocol.GameState) {
	ids := make([]string, 0, len(gs.Players))
	seen := make(map[string]bool, len(gs.Players))
	for _, id := range gs.Order {
		if _, ok := gs.Players[id]; ok && !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	// Ids missing from the order go last, sorted for a stable layout
	var rest []string
	for id := range gs.Players {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	ids = append(ids, rest...)

	players := make([]protocol.PlayerHead, 0, len(ids))
	for _, id := range ids {
		p := gs.Players[id]
		head := protocol.Point{}
		if len(p.SnakeBody) > 0 {
			head = protocol.Point{X: p.SnakeBody[0].X, Y: p.SnakeBody[0].Y}
		}
		players = append(players, protocol.PlayerHead{ID: id, Head: head, Score: p.Score, Color: p.Color})
	}

	m.state = protocol.StateUpdate{Players: players, Food: gs.Food}
	m.phase = gs.Phase
	m.lastResults = gs.LastResults
	m.lastUpdate = m.now
	if m.phase == "ended" && len(m.lastResults) > 0 {
		m.table.SetRows(resultRows(m.lastResults))
	} else {
		m.table.SetRows(scoreRows(players))
	}
}

// resize recomputes the arena and table sizes for a terminal of w x h.
func (m *SpectatorModel) resize(w, h int) {
	m.width, m.height = w, h
	bodyH := max(h-headerLines-footerLines, minTableHeight+2)
	arenaW := max(w-scoreTableWidth-2, minArenaWidth)

	m.screen.Resize(arenaW, bodyH)
	rows := m.table.Rows()
	m.table = newScoreTable(bodyH - 2)
	m.table.SetRows(rows)
	m.help.Width = w
}

// statusLine describes the round phase for the header.
func (m SpectatorModel) statusLine() string {
	switch m.phase {
	case "countdown":
		return fmt.Sprintf("Round starts in %d", m.countdown)
	case "active":
		return fmt.Sprintf("Time left %d:%02d", m.remaining/60, m.remaining%60)
	case "ended":
		if len(m.lastResults) == 0 {
			return "Round over"
		}
		best := m.lastResults[0]
		for _, r := range m.lastResults[1:] {
			if r.Score > best.Score {
				best = r
			}
		}
		return fmt.Sprintf("Round over, %s wins with %d", shortID(best.ID), best.Score)
	default:
		return "Waiting for every player to ready up"
	}
}

// View renders the spectator screen.
func (m SpectatorModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	status := m.statusLine()
	if !m.lastUpdate.IsZero() && m.now.Sub(m.lastUpdate) > staleAfter {
		status += " (no updates)"
	}
	if m.closed {
		status = "Disconnected from arena"
	}

	DrawArena(m.screen, m.arena, m.state)

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Snake Arena"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%d players", len(m.state.Players)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		RenderScreen(m.screen),
		" ",
		tableStyle.Render(m.table.View()),
	))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

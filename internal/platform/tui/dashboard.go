package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/multiplayer"
)

const defaultSpectatorBuffer = 64

// Subscriber accepts coordinator messages. *multiplayer.Coordinator satisfies it.
type Subscriber interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// subscribe registers a spectator session and returns it with a func that
// unregisters it. leave is safe to call more than once.
func subscribe(coord Subscriber, id multiplayer.SessionID, buffer int) (*multiplayer.ChannelSession, func()) {
	if buffer <= 0 {
		buffer = defaultSpectatorBuffer
	}
	session := multiplayer.NewChannelSession(id, buffer)
	coord.Send(multiplayer.SpectateMsg{Session: session})

	var once sync.Once
	leave := func() {
		once.Do(func() {
			coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
			session.Close()
		})
	}
	return session, leave
}

// RunDashboard shows the spectator view in the local terminal until the user
// quits or ctx is cancelled.
func RunDashboard(ctx context.Context, coord Subscriber, arena ArenaSize, width, height int) error {
	session, leave := subscribe(coord, "local-dashboard", defaultSpectatorBuffer)
	defer leave()

	model := NewSpectatorModel(session, arena, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	return nil
}

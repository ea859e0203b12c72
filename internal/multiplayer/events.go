package multiplayer

import (
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// SessionEvent represents an event sent from the coordinator to a session.
// Name and Payload map directly onto the wire envelope.
type SessionEvent interface {
	sessionEvent()
	Name() string
	Payload() any
}

// InitEvent carries the full game state to a newly joined session.
type InitEvent struct {
	State protocol.GameState
}

func (InitEvent) sessionEvent()  {}
func (InitEvent) Name() string   { return protocol.EventInit }
func (e InitEvent) Payload() any { return e.State }

// CountdownEvent is sent every second before a round starts.
type CountdownEvent struct {
	Seconds int
}

func (CountdownEvent) sessionEvent()  {}
func (CountdownEvent) Name() string   { return protocol.EventCountdown }
func (e CountdownEvent) Payload() any { return e.Seconds }

// GameStartEvent is sent once when a round becomes active.
type GameStartEvent struct{}

func (GameStartEvent) sessionEvent() {}
func (GameStartEvent) Name() string  { return protocol.EventGameStart }
func (GameStartEvent) Payload() any  { return nil }

// TimerUpdateEvent is sent every second of an active round.
type TimerUpdateEvent struct {
	Remaining int
}

func (TimerUpdateEvent) sessionEvent()  {}
func (TimerUpdateEvent) Name() string   { return protocol.EventTimerUpdate }
func (e TimerUpdateEvent) Payload() any { return e.Remaining }

// GameOverEvent carries the final scores of a round.
type GameOverEvent struct {
	Results []protocol.ScoreEntry
}

func (GameOverEvent) sessionEvent()  {}
func (GameOverEvent) Name() string   { return protocol.EventGameOver }
func (e GameOverEvent) Payload() any { return e.Results }

// StateUpdateEvent is broadcast every simulation tick.
type StateUpdateEvent struct {
	Tick  uint64
	State protocol.StateUpdate
}

func (StateUpdateEvent) sessionEvent()  {}
func (StateUpdateEvent) Name() string   { return protocol.EventStateUpdate }
func (e StateUpdateEvent) Payload() any { return e.State }

// ServerFullEvent is sent to a session that could not join. The transport
// closes the connection after delivering it.
type ServerFullEvent struct {
	Capacity int
}

func (ServerFullEvent) sessionEvent()  {}
func (ServerFullEvent) Name() string   { return protocol.EventServerFull }
func (e ServerFullEvent) Payload() any { return protocol.ServerFull{Capacity: e.Capacity} }

// eventFromEmission converts a lifecycle emission into a session event.
func eventFromEmission(e snake.Emission) (SessionEvent, bool) {
	switch e.Event {
	case protocol.EventCountdown:
		n, _ := e.Data.(int)
		return CountdownEvent{Seconds: n}, true
	case protocol.EventGameStart:
		return GameStartEvent{}, true
	case protocol.EventTimerUpdate:
		n, _ := e.Data.(int)
		return TimerUpdateEvent{Remaining: n}, true
	case protocol.EventGameOver:
		results, _ := e.Data.([]protocol.ScoreEntry)
		return GameOverEvent{Results: results}, true
	default:
		return nil, false
	}
}

// CoordinatorMessage represents a message from a transport to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// ConnectMsg asks to seat a new player.
type ConnectMsg struct {
	Session SessionHandle
}

func (ConnectMsg) coordinatorMessage() {}

// SpectateMsg subscribes a session to broadcasts without seating it.
type SpectateMsg struct {
	Session SessionHandle
}

func (SpectateMsg) coordinatorMessage() {}

// PlayerReadyMsg marks the player ready for the next round.
type PlayerReadyMsg struct {
	SessionID SessionID
}

func (PlayerReadyMsg) coordinatorMessage() {}

// UpdateMouseMsg moves the player's steering target.
type UpdateMouseMsg struct {
	SessionID SessionID
	X, Y      float64
}

func (UpdateMouseMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}

// StatsMsg requests a Stats snapshot. Reply must be buffered.
type StatsMsg struct {
	Reply chan<- Stats
}

func (StatsMsg) coordinatorMessage() {}

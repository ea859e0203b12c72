package snake

import (
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// Phase is the round lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountingDown
	PhaseActive
	PhaseEnded
)

// String returns the phase name used on the wire.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountingDown:
		return "countdown"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Emission is an outbound event produced by a lifecycle transition.
type Emission struct {
	Event string
	Data  any
}

// Round drives ready-check -> countdown -> active -> ended.
// It does not own time: the caller invokes Advance once per second while Timed is true.
type Round struct {
	countdownSecs int
	durationSecs  int

	phase       Phase
	countdown   int
	remaining   int
	lastResults []protocol.ScoreEntry
}

// NewRound creates an idle round with the given phase lengths in seconds.
func NewRound(countdownSecs, durationSecs int) *Round {
	return &Round{
		countdownSecs: countdownSecs,
		durationSecs:  durationSecs,
	}
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// Countdown returns the seconds left before the round starts.
func (r *Round) Countdown() int { return r.countdown }

// Remaining returns the seconds left in the active round.
func (r *Round) Remaining() int { return r.remaining }

// LastResults returns the final scores of the previous round, if any.
func (r *Round) LastResults() []protocol.ScoreEntry { return r.lastResults }

// Timed reports whether the current phase needs one-second Advance calls.
func (r *Round) Timed() bool {
	return r.phase == PhaseCountingDown || r.phase == PhaseActive
}

// TimerRunning is the wire flag for Timed.
func (r *Round) TimerRunning() bool { return r.Timed() }

// TryStart begins the countdown when every player in a non-empty world is
// ready and no round is in progress. The first countdown value is emitted
// immediately. It reports whether the countdown started.
func (r *Round) TryStart(w *World) ([]Emission, bool) {
	if r.phase != PhaseIdle && r.phase != PhaseEnded {
		return nil, false
	}
	if !w.AllReady() {
		return nil, false
	}

	r.phase = PhaseCountingDown
	r.countdown = r.countdownSecs
	return []Emission{{Event: protocol.EventCountdown, Data: r.countdown}}, true
}

// Advance applies one second of lifecycle time.
func (r *Round) Advance(w *World) []Emission {
	switch r.phase {
	case PhaseCountingDown:
		r.countdown--
		out := []Emission{{Event: protocol.EventCountdown, Data: r.countdown}}
		if r.countdown > 0 {
			return out
		}
		w.resetPlayers()
		r.phase = PhaseActive
		r.remaining = r.durationSecs
		return append(out,
			Emission{Event: protocol.EventGameStart},
			Emission{Event: protocol.EventTimerUpdate, Data: r.remaining},
		)

	case PhaseActive:
		r.remaining--
		out := []Emission{{Event: protocol.EventTimerUpdate, Data: r.remaining}}
		if r.remaining > 0 {
			return out
		}
		r.lastResults = w.Scores()
		w.clearReady()
		r.phase = PhaseEnded
		return append(out, Emission{Event: protocol.EventGameOver, Data: r.lastResults})

	default:
		return nil
	}
}

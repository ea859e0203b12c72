package snake

import (
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// Scores returns every player's score in join order.
func (w *World) Scores() []protocol.ScoreEntry {
	out := make([]protocol.ScoreEntry, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, protocol.ScoreEntry{ID: id, Score: w.players[id].Score})
	}
	return out
}

// StateUpdate builds the per-tick broadcast: heads, scores and the food.
func (w *World) StateUpdate() protocol.StateUpdate {
	players := make([]protocol.PlayerHead, 0, len(w.order))
	for _, id := range w.order {
		p := w.players[id]
		head := p.Head()
		players = append(players, protocol.PlayerHead{
			ID:    id,
			Head:  protocol.Point{X: head.Pos.X, Y: head.Pos.Y},
			Score: p.Score,
			Color: p.Color,
		})
	}
	return protocol.StateUpdate{
		Players: players,
		Food:    w.foodState(),
	}
}

// GameState builds the full snapshot sent to a newly connected client.
func (w *World) GameState(r *Round) protocol.GameState {
	players := make(map[string]protocol.PlayerState, len(w.order))
	for _, id := range w.order {
		p := w.players[id]
		body := make([]protocol.SegmentState, len(p.Body))
		for i, s := range p.Body {
			body[i] = protocol.SegmentState{
				X:      s.Pos.X,
				Y:      s.Pos.Y,
				Radius: s.Radius,
				Color:  s.Color,
				Smooth: s.Smooth,
			}
		}
		players[id] = protocol.PlayerState{
			ID:        id,
			SnakeBody: body,
			Score:     p.Score,
			Mouse:     protocol.Point{X: p.Target.X, Y: p.Target.Y},
			Ready:     p.Ready,
			Color:     p.Color,
		}
	}

	order := make([]string, len(w.order))
	copy(order, w.order)

	return protocol.GameState{
		Players:      players,
		Order:        order,
		Food:         w.foodState(),
		TimerRunning: r.TimerRunning(),
		Phase:        r.Phase().String(),
		LastResults:  r.LastResults(),
	}
}

func (w *World) foodState() protocol.FoodState {
	return protocol.FoodState{X: w.food.Pos.X, Y: w.food.Pos.Y, Radius: w.food.Radius}
}

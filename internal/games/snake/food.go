package snake

import "github.com/vovakirdan/snake-arena/internal/core"

// CheckFood tests the player's head against the current food. On overlap the
// player scores, grows by one segment behind its tail and the food respawns.
// It reports whether the food was eaten. Unknown ids are ignored.
func (w *World) CheckFood(id string) bool {
	p, ok := w.players[id]
	if !ok || len(p.Body) == 0 {
		return false
	}

	food := core.Circle{Center: w.food.Pos, Radius: w.food.Radius}
	if !p.Head().Circle().Overlaps(food) {
		return false
	}

	p.Score++
	tail := p.Tail()
	p.Body = append(p.Body, Segment{
		Pos:    core.V(tail.Pos.X-2*tail.Radius, tail.Pos.Y),
		Radius: tail.Radius,
		Color:  p.Color,
		Smooth: tail.Smooth,
	})
	w.respawnFood()
	return true
}

// respawnFood moves the food to a uniformly random point inside the food bounds.
func (w *World) respawnFood() {
	w.food.Pos = w.settings.FoodBounds.RandomPoint(w.rng)
}

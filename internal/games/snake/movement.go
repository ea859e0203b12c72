package snake

import (
	"math"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// MoveChain advances a chain by one tick, in place.
//
// The head approaches target by its smoothing factor. Each following segment
// then approaches the point two of its radii behind its already-moved
// predecessor, along the line joining them. This is a single head-to-tail
// sweep, not a constraint solve, so the chain lags by a tick per segment.
func MoveChain(body []Segment, target core.Vec2) {
	if len(body) == 0 {
		return
	}
	body[0].Pos = body[0].Pos.Approach(target, body[0].Smooth)

	for i := 1; i < len(body); i++ {
		prev := body[i-1].Pos
		cur := &body[i]
		cur.Pos = cur.Pos.Approach(followPoint(prev, cur.Pos, cur.Radius), cur.Smooth)
	}
}

// followPoint returns where a segment of radius r wants to sit behind prev.
// Coincident points fall back to angle 0.
func followPoint(prev, cur core.Vec2, r float64) core.Vec2 {
	angle := 0.0
	if d := prev.Sub(cur); d.X != 0 || d.Y != 0 {
		angle = math.Atan2(d.Y, d.X)
	}
	return core.V(prev.X-2*r*math.Cos(angle), prev.Y-2*r*math.Sin(angle))
}

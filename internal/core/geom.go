// Package core provides fundamental types and utilities for the arena server.
// It contains no external dependencies to keep simulation logic pure and testable.
package core

import "math"

// Vec2 is a point or displacement in arena coordinates.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Approach moves v toward target by the fraction alpha of the remaining distance.
// With alpha in [0, 1] the result is a convex combination and never overshoots.
func (v Vec2) Approach(target Vec2, alpha float64) Vec2 {
	return Vec2{
		X: v.X + (target.X-v.X)*alpha,
		Y: v.Y + (target.Y-v.Y)*alpha,
	}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Circle is a circular body used for radius-based collision.
type Circle struct {
	Center Vec2
	Radius float64
}

// Overlaps returns true if the center distance is strictly less than the sum of radii.
// Touching circles do not overlap.
func (c Circle) Overlaps(other Circle) bool {
	return c.Center.Dist(other.Center) < c.Radius+other.Radius
}

// Bounds is an axis-aligned rectangle in arena coordinates, inclusive of Min and exclusive of Max.
type Bounds struct {
	Min, Max Vec2
}

// NewBounds creates bounds from the top-left corner and size.
func NewBounds(x, y, w, h float64) Bounds {
	return Bounds{Min: V(x, y), Max: V(x+w, y+h)}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Contains returns true if p lies inside the bounds.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Clamp returns p moved onto the closed rectangle [Min, Max].
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{
		X: ClampF(p.X, b.Min.X, b.Max.X),
		Y: ClampF(p.Y, b.Min.Y, b.Max.Y),
	}
}

// RandomPoint returns a uniformly distributed point inside the bounds.
func (b Bounds) RandomPoint(rng RandomSource) Vec2 {
	return Vec2{
		X: b.Min.X + rng.Float64()*b.Width(),
		Y: b.Min.Y + rng.Float64()*b.Height(),
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

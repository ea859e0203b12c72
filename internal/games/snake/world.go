// Package snake implements the arena simulation: chain movement, food
// consumption, the player registry and the round lifecycle.
//
// Nothing in this package is safe for concurrent use. A World and its Round
// are owned by a single goroutine (the multiplayer coordinator).
package snake

import (
	"errors"

	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/core"
)

var (
	// ErrArenaFull is returned by AddPlayer when the arena is at capacity.
	ErrArenaFull = errors.New("snake: arena is full")
	// ErrPlayerExists is returned by AddPlayer for an id already registered.
	ErrPlayerExists = errors.New("snake: player already exists")
)

// Segment is one circle of a chain. Index 0 of a chain is the head.
type Segment struct {
	Pos    core.Vec2
	Radius float64
	Color  string
	Smooth float64 // Fraction of the gap to its target covered per tick
}

// Circle returns the segment's collision body.
func (s Segment) Circle() core.Circle {
	return core.Circle{Center: s.Pos, Radius: s.Radius}
}

// Player is one connected participant.
type Player struct {
	ID     string
	Body   []Segment
	Score  int
	Target core.Vec2
	Ready  bool
	Color  string
}

// Head returns the first segment of the chain.
func (p *Player) Head() Segment {
	return p.Body[0]
}

// Tail returns the last segment of the chain.
func (p *Player) Tail() Segment {
	return p.Body[len(p.Body)-1]
}

// Food is the single consumable item in the arena.
type Food struct {
	Pos    core.Vec2
	Radius float64
}

// Settings holds the tunables the simulation reads.
type Settings struct {
	Capacity    int
	HeadRadius  float64
	Smoothing   float64
	Spawn       core.Vec2
	Palette     []string
	FoodRadius  float64
	InitialFood core.Vec2
	FoodBounds  core.Bounds
	Pointer     core.Bounds // Steering targets are clamped into this rectangle
}

// SettingsFromConfig extracts simulation settings from the loaded configuration.
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		Capacity:    cfg.Simulation.Capacity,
		HeadRadius:  cfg.Snake.HeadRadius,
		Smoothing:   cfg.Snake.Smoothing,
		Spawn:       core.V(cfg.Snake.SpawnX, cfg.Snake.SpawnY),
		Palette:     cfg.Snake.Palette,
		FoodRadius:  cfg.Arena.FoodRadius,
		InitialFood: core.V(cfg.Arena.InitialFoodX, cfg.Arena.InitialFoodY),
		FoodBounds:  cfg.Arena.FoodBounds(),
		Pointer:     cfg.Arena.PointerBounds(),
	}
}

// DefaultSettings returns the settings of the built-in configuration.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// World is the complete simulation state: players in join order plus the food.
type World struct {
	settings Settings
	rng      core.RandomSource
	players  map[string]*Player
	order    []string // Join order, used for every iteration
	food     Food
}

// NewWorld creates an empty arena with food at its initial position.
func NewWorld(settings Settings, rng core.RandomSource) *World {
	return &World{
		settings: settings,
		rng:      rng,
		players:  make(map[string]*Player),
		food:     Food{Pos: settings.InitialFood, Radius: settings.FoodRadius},
	}
}

// Settings returns the simulation settings.
func (w *World) Settings() Settings {
	return w.settings
}

// Len returns the number of registered players.
func (w *World) Len() int {
	return len(w.order)
}

// Food returns the current food.
func (w *World) Food() Food {
	return w.food
}

// Players returns the players in join order.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.players[id])
	}
	return out
}

// AddPlayer registers a new player with a single head at the spawn point
// and a random palette color.
func (w *World) AddPlayer(id string) (*Player, error) {
	if _, ok := w.players[id]; ok {
		return nil, ErrPlayerExists
	}
	if len(w.order) >= w.settings.Capacity {
		return nil, ErrArenaFull
	}

	color := ""
	if n := len(w.settings.Palette); n > 0 {
		color = w.settings.Palette[w.rng.Intn(n)]
	}

	p := &Player{
		ID:    id,
		Color: color,
	}
	p.Body = []Segment{w.spawnHead(color)}
	w.players[id] = p
	w.order = append(w.order, id)
	return p, nil
}

// RemovePlayer deletes a player. It reports whether the id was known.
func (w *World) RemovePlayer(id string) bool {
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// UpdatePointer sets the player's steering target. Unknown ids and
// non-finite coordinates are ignored; the result reports whether it applied.
// Targets far outside the arena are clamped so that steering math stays finite.
func (w *World) UpdatePointer(id string, x, y float64) bool {
	p, ok := w.players[id]
	if !ok {
		return false
	}
	target := core.V(x, y)
	if !target.IsFinite() {
		return false
	}
	if !w.settings.Pointer.Contains(target) {
		target = w.settings.Pointer.Clamp(target)
	}
	p.Target = target
	return true
}

// SetReady marks the player ready. It reports whether the id was known.
func (w *World) SetReady(id string) bool {
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.Ready = true
	return true
}

// AllReady reports whether the arena is non-empty and every player is ready.
func (w *World) AllReady() bool {
	if len(w.order) == 0 {
		return false
	}
	for _, id := range w.order {
		if !w.players[id].Ready {
			return false
		}
	}
	return true
}

// Step advances the simulation by one tick: every player, in join order,
// moves toward its target and then checks for food.
func (w *World) Step() {
	for _, id := range w.order {
		p := w.players[id]
		MoveChain(p.Body, p.Target)
		w.CheckFood(id)
	}
}

// resetPlayers shrinks every chain to a fresh head, zeroes scores and clears readiness.
func (w *World) resetPlayers() {
	for _, id := range w.order {
		p := w.players[id]
		p.Body = []Segment{w.spawnHead(p.Color)}
		p.Score = 0
		p.Ready = false
	}
}

func (w *World) clearReady() {
	for _, p := range w.players {
		p.Ready = false
	}
}

func (w *World) spawnHead(color string) Segment {
	return Segment{
		Pos:    w.settings.Spawn,
		Radius: w.settings.HeadRadius,
		Color:  color,
		Smooth: w.settings.Smoothing,
	}
}

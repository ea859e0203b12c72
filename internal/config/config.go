// Package config provides YAML-based configuration loading for the arena server.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// Config contains all configuration for the arena server.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Arena      ArenaConfig      `yaml:"arena"`
	Simulation SimulationConfig `yaml:"simulation"`
	Snake      SnakeConfig      `yaml:"snake"`
	Round      RoundConfig      `yaml:"round"`
	Spectator  SpectatorConfig  `yaml:"spectator"`
}

// ServerConfig defines the HTTP/websocket listener.
type ServerConfig struct {
	Port             int    `yaml:"port"`
	StaticDir        string `yaml:"static_dir"` // Served at "/" when set
	ClientURL        string `yaml:"client_url"` // Only used in the startup log line
	ReadLimit        int64  `yaml:"read_limit"` // Max inbound frame size in bytes
	PingIntervalSecs int    `yaml:"ping_interval_secs"`
	PongWaitSecs     int    `yaml:"pong_wait_secs"`
	WriteWaitSecs    int    `yaml:"write_wait_secs"`
	SendBuffer       int    `yaml:"send_buffer"` // Per-session outbound event buffer
}

// ArenaConfig defines the play field and food.
type ArenaConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Margin       float64 `yaml:"margin"` // Food never spawns closer than this to an edge
	FoodRadius   float64 `yaml:"food_radius"`
	InitialFoodX float64 `yaml:"initial_food_x"`
	InitialFoodY float64 `yaml:"initial_food_y"`
}

// SimulationConfig defines the tick scheduler and session capacity.
type SimulationConfig struct {
	TickRate int   `yaml:"tick_rate"` // Simulation + broadcast ticks per second
	Capacity int   `yaml:"capacity"`  // Max concurrent players
	Seed     int64 `yaml:"seed"`      // 0 = seed from time
}

// SnakeConfig defines how new snakes are built.
type SnakeConfig struct {
	HeadRadius float64  `yaml:"head_radius"`
	Smoothing  float64  `yaml:"smoothing"`
	SpawnX     float64  `yaml:"spawn_x"`
	SpawnY     float64  `yaml:"spawn_y"`
	Palette    []string `yaml:"palette"`
}

// RoundConfig defines the round lifecycle timings.
type RoundConfig struct {
	CountdownSecs int `yaml:"countdown_secs"`
	DurationSecs  int `yaml:"duration_secs"`
}

// SpectatorConfig defines the optional SSH spectator console.
type SpectatorConfig struct {
	SSHAddr         string `yaml:"ssh_addr"` // Empty disables the SSH server
	HostKeyPath     string `yaml:"host_key_path"`
	IdleTimeoutMins int    `yaml:"idle_timeout_mins"`
}

// FoodBounds returns the rectangle food may spawn in.
func (a ArenaConfig) FoodBounds() core.Bounds {
	return core.NewBounds(a.Margin, a.Margin, a.Width-2*a.Margin, a.Height-2*a.Margin)
}

// PointerBounds returns the rectangle steering targets are clamped to:
// the arena padded by its own size on every side.
func (a ArenaConfig) PointerBounds() core.Bounds {
	return core.NewBounds(-a.Width, -a.Height, 3*a.Width, 3*a.Height)
}

// Validate checks the configuration for values the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate))
	}
	if c.Simulation.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("simulation.capacity must be positive, got %d", c.Simulation.Capacity))
	}
	if c.Arena.Width <= 2*c.Arena.Margin || c.Arena.Height <= 2*c.Arena.Margin {
		errs = append(errs, errors.New("arena is smaller than its margins"))
	}
	if c.Arena.FoodRadius <= 0 {
		errs = append(errs, errors.New("arena.food_radius must be positive"))
	}
	if c.Snake.HeadRadius <= 0 {
		errs = append(errs, errors.New("snake.head_radius must be positive"))
	}
	if c.Snake.Smoothing <= 0 || c.Snake.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("snake.smoothing must be in (0, 1], got %g", c.Snake.Smoothing))
	}
	if len(c.Snake.Palette) == 0 {
		errs = append(errs, errors.New("snake.palette must not be empty"))
	}
	if c.Round.CountdownSecs <= 0 || c.Round.DurationSecs <= 0 {
		errs = append(errs, errors.New("round timings must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

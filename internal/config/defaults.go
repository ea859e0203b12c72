package config

import (
	_ "embed"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// Default returns the built-in arena configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:             3000,
			ClientURL:        "http://localhost",
			ReadLimit:        4096,
			PingIntervalSecs: 25,
			PongWaitSecs:     60,
			WriteWaitSecs:    10,
			SendBuffer:       64,
		},
		Arena: ArenaConfig{
			Width:        640,
			Height:       440,
			Margin:       20,
			FoodRadius:   10,
			InitialFoodX: 300,
			InitialFoodY: 300,
		},
		Simulation: SimulationConfig{
			TickRate: 15,
			Capacity: 4,
		},
		Snake: SnakeConfig{
			HeadRadius: 15,
			Smoothing:  0.2,
			SpawnX:     100,
			SpawnY:     100,
			Palette:    []string{"red", "blue", "green", "purple", "orange"},
		},
		Round: RoundConfig{
			CountdownSecs: 5,
			DurationSecs:  60,
		},
		Spectator: SpectatorConfig{
			IdleTimeoutMins: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultArenaYAML
}

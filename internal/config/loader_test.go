package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvClientURL, "")
	t.Setenv(EnvSSHAddr, "")

	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := []byte("simulation:\n  capacity: 8\nround:\n  duration_secs: 90\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Simulation.Capacity != 8 {
		t.Errorf("Capacity = %d, expected 8", cfg.Simulation.Capacity)
	}
	if cfg.Round.DurationSecs != 90 {
		t.Errorf("DurationSecs = %d, expected 90", cfg.Round.DurationSecs)
	}
	// Untouched sections keep their defaults
	if cfg.Simulation.TickRate != 15 {
		t.Errorf("TickRate = %d, expected default 15", cfg.Simulation.TickRate)
	}
	if cfg.Round.CountdownSecs != 5 {
		t.Errorf("CountdownSecs = %d, expected default 5", cfg.Round.CountdownSecs)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config path")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvPort, "")

	path := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  tick_rate: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject a zero tick rate")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvClientURL, "https://arena.example")
	t.Setenv(EnvSSHAddr, ":2222")

	cfg := Default()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, expected 8081", cfg.Server.Port)
	}
	if cfg.Server.ClientURL != "https://arena.example" {
		t.Errorf("ClientURL = %q", cfg.Server.ClientURL)
	}
	if cfg.Spectator.SSHAddr != ":2222" {
		t.Errorf("SSHAddr = %q, expected :2222", cfg.Spectator.SSHAddr)
	}
}

func TestApplyEnvBadPort(t *testing.T) {
	t.Setenv(EnvPort, "three-thousand")

	cfg := Default()
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatal("ApplyEnv() should reject a non-numeric PORT")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "ARENA_DOTENV_TEST_KEY"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("%s = %q, expected from-dotenv", key, got)
	}

	// Missing file is fine
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadDotEnv() on missing file = %v, expected nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Simulation.Capacity = 0 }},
		{"empty palette", func(c *Config) { c.Snake.Palette = nil }},
		{"smoothing above one", func(c *Config) { c.Snake.Smoothing = 1.5 }},
		{"negative countdown", func(c *Config) { c.Round.CountdownSecs = -1 }},
		{"arena swallowed by margin", func(c *Config) { c.Arena.Width = 30 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() should fail for %s", tc.name)
			}
		})
	}
}

func TestFoodBounds(t *testing.T) {
	b := Default().Arena.FoodBounds()
	if b.Min.X != 20 || b.Min.Y != 20 || b.Max.X != 620 || b.Max.Y != 420 {
		t.Errorf("FoodBounds() = %+v, expected [20,620) x [20,420)", b)
	}

	p := Default().Arena.PointerBounds()
	if p.Min.X != -640 || p.Min.Y != -440 || p.Max.X != 1280 || p.Max.Y != 880 {
		t.Errorf("PointerBounds() = %+v, expected [-640,1280] x [-440,880]", p)
	}
}

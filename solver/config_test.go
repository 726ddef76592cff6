package solver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestPresetConfigs(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		strategy string
	}{
		{"fast", FastConfig(), StrategyRandom},
		{"thorough", ThoroughConfig(), StrategyBreadthFirst},
		{"balanced", BalancedConfig(), StrategyBestFirst},
		{"debug", DebugConfig(), StrategyDepthFirst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if tt.config.ExplorationStrategy != tt.strategy {
				t.Fatalf("strategy = %s, want %s", tt.config.ExplorationStrategy, tt.strategy)
			}
		})
	}
	if FastConfig().MaxIterations != 100 || FastConfig().MaxSolutions != 5 {
		t.Fatal("fast preset budget changed")
	}
	if DebugConfig().LogLevel != "DEBUG" {
		t.Fatal("debug preset should log verbosely")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown strategy", func(c *Config) { c.ExplorationStrategy = "oracle" }, "exploration_strategy"},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, "max_iterations"},
		{"negative solutions", func(c *Config) { c.MaxSolutions = -1 }, "max_solutions"},
		{"bad generation strategy", func(c *Config) { c.StructureGenerationStrategy = "exhaustive" }, "structure_generation_strategy"},
		{"bad assignment strategy", func(c *Config) { c.VariableAssignmentStrategy = "greedy" }, "variable_assignment_strategy"},
		{"bad log level", func(c *Config) { c.LogLevel = "LOUD" }, "log_level"},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }, "cache_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Fatalf("field = %s, want %s", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{"exploration_strategy": "random", "max_iterations": 42}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.ExplorationStrategy != StrategyRandom || c.MaxIterations != 42 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	// Unmentioned fields keep the defaults.
	if c.MaxSolutions != 10 || !c.CacheEvaluations {
		t.Fatalf("defaults not layered: %+v", c)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := "exploration_strategy: depth_first\nlog_level: WARN\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.ExplorationStrategy != StrategyDepthFirst || c.LogLevel != "WARN" {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"max_iterations": -5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfgErr *ConfigError
	if _, err := LoadConfig(path); !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestLoadConfigUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfgErr *ConfigError
	if _, err := LoadConfig(path); !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := ThoroughConfig()
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded != c {
		t.Fatalf("round trip changed config:\n got %+v\nwant %+v", loaded, c)
	}
}

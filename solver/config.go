package solver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Exploration strategies.
const (
	StrategyBreadthFirst = "breadth_first"
	StrategyDepthFirst   = "depth_first"
	StrategyBestFirst    = "best_first"
	StrategyRandom       = "random"
)

// Config controls one exploration run.
type Config struct {
	ExplorationStrategy         string `json:"exploration_strategy" yaml:"exploration_strategy"`
	MaxIterations               int    `json:"max_iterations" yaml:"max_iterations"`
	MaxSolutions                int    `json:"max_solutions" yaml:"max_solutions"`
	StructureGenerationStrategy string `json:"structure_generation_strategy" yaml:"structure_generation_strategy"`
	VariableAssignmentStrategy  string `json:"variable_assignment_strategy" yaml:"variable_assignment_strategy"`
	EnableSchemaValidation      bool   `json:"enable_schema_validation" yaml:"enable_schema_validation"`
	EnableConstraintValidation  bool   `json:"enable_constraint_validation" yaml:"enable_constraint_validation"`
	EnableLogging               bool   `json:"enable_logging" yaml:"enable_logging"`
	LogLevel                    string `json:"log_level" yaml:"log_level"`
	ParallelEvaluation          bool   `json:"parallel_evaluation" yaml:"parallel_evaluation"`
	CacheEvaluations            bool   `json:"cache_evaluations" yaml:"cache_evaluations"`
	CacheSize                   int    `json:"cache_size" yaml:"cache_size"`
	Seed                        int64  `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		ExplorationStrategy:         StrategyBreadthFirst,
		MaxIterations:               1000,
		MaxSolutions:                10,
		StructureGenerationStrategy: "random",
		VariableAssignmentStrategy:  "random",
		EnableSchemaValidation:      true,
		EnableConstraintValidation:  true,
		EnableLogging:               true,
		LogLevel:                    "INFO",
		ParallelEvaluation:          false,
		CacheEvaluations:            true,
		CacheSize:                   1000,
		Seed:                        1,
	}
}

// FastConfig trades coverage for speed: random sampling and few iterations.
func FastConfig() Config {
	c := DefaultConfig()
	c.ExplorationStrategy = StrategyRandom
	c.MaxIterations = 100
	c.MaxSolutions = 5
	return c
}

// ThoroughConfig searches broadly with a large iteration budget.
func ThoroughConfig() Config {
	c := DefaultConfig()
	c.ExplorationStrategy = StrategyBreadthFirst
	c.MaxIterations = 5000
	c.MaxSolutions = 50
	return c
}

// BalancedConfig uses score-guided search under the default budget.
func BalancedConfig() Config {
	c := DefaultConfig()
	c.ExplorationStrategy = StrategyBestFirst
	return c
}

// DebugConfig runs a tiny depth-first exploration with verbose logging.
func DebugConfig() Config {
	c := DefaultConfig()
	c.ExplorationStrategy = StrategyDepthFirst
	c.MaxIterations = 50
	c.MaxSolutions = 3
	c.LogLevel = "DEBUG"
	return c
}

var explorationStrategies = map[string]bool{
	StrategyBreadthFirst: true,
	StrategyDepthFirst:   true,
	StrategyBestFirst:    true,
	StrategyRandom:       true,
}

var generationStrategies = map[string]bool{
	"random":     true,
	"systematic": true,
	"heuristic":  true,
}

// Validate checks the configuration and returns the first problem found as
// a *ConfigError.
func (c Config) Validate() error {
	if !explorationStrategies[c.ExplorationStrategy] {
		return &ConfigError{Field: "exploration_strategy", Reason: fmt.Sprintf("unknown strategy %q", c.ExplorationStrategy)}
	}
	if c.MaxIterations <= 0 {
		return &ConfigError{Field: "max_iterations", Reason: "must be positive"}
	}
	if c.MaxSolutions <= 0 {
		return &ConfigError{Field: "max_solutions", Reason: "must be positive"}
	}
	if !generationStrategies[c.StructureGenerationStrategy] {
		return &ConfigError{Field: "structure_generation_strategy", Reason: fmt.Sprintf("unknown strategy %q", c.StructureGenerationStrategy)}
	}
	if !generationStrategies[c.VariableAssignmentStrategy] {
		return &ConfigError{Field: "variable_assignment_strategy", Reason: fmt.Sprintf("unknown strategy %q", c.VariableAssignmentStrategy)}
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return &ConfigError{Field: "log_level", Reason: err.Error()}
	}
	if c.CacheSize <= 0 {
		return &ConfigError{Field: "cache_size", Reason: "must be positive"}
	}
	return nil
}

// LoadConfig reads a configuration file, layering it over the defaults.
// The format is chosen by extension: .json, .yaml or .yml.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	c := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, &ConfigError{Reason: fmt.Sprintf("unsupported config format %q", ext)}
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes the configuration as JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}

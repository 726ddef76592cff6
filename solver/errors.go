package solver

import "fmt"

// ConfigError reports an invalid configuration. It is fatal: the engine
// refuses to start exploring with a broken config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("config: %s", e.Reason)
}

// SolverError wraps any error escaping Solve so callers handle a single
// failure type.
type SolverError struct {
	Op  string
	Err error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver: %s: %v", e.Op, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

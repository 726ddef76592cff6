// Package solver drives the exploration of a design space: it generates
// candidate designs, validates them against a schema and a constraint set,
// and searches for valid solutions under an iteration budget.
package solver

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsxplore/go-dsx/cache"
	"github.com/dsxplore/go-dsx/constraint"
	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/evaluator"
	"github.com/dsxplore/go-dsx/generate"
	"github.com/dsxplore/go-dsx/schema"
	"github.com/dsxplore/go-dsx/variable"
)

// SchemaConstraintID labels violations produced by schema validation when
// they are folded into the constraint violation stream.
const SchemaConstraintID = "schema_validation"

// Engine explores a design space configured by a Config and bounded by a
// constraint set.
type Engine struct {
	cfg         Config
	log         zerolog.Logger
	constraints *constraint.Set
	generator   *generate.StructureGenerator
	assigner    *generate.VariableAssigner
	eval        *evaluator.Evaluator
	validator   schema.Validator
	cache       *cache.EvaluationCache

	state     *ExplorationState
	solutions []*design.Object
	scores    map[string]float64
}

// Option customizes engine construction.
type Option func(*Engine)

// WithSchemaValidator replaces the default document validator.
func WithSchemaValidator(v schema.Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithEvaluator replaces the default constraint evaluator, keeping any
// overrides registered on it.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// WithLogger replaces the logger derived from the config.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an engine for the constraint set. An invalid config fails
// with a *ConfigError before any exploration starts.
func New(cfg Config, set *constraint.Set, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		log:         newLogger(cfg),
		constraints: set,
		generator:   generate.NewStructureGenerator(cfg.Seed),
		assigner:    generate.NewVariableAssigner(cfg.Seed + 1),
		eval:        evaluator.New(set),
		validator:   schema.NewStructureValidator(),
		state:       NewExplorationState(),
		scores:      make(map[string]float64),
	}
	if cfg.CacheEvaluations {
		e.cache = cache.NewEvaluationCache(cfg.CacheSize)
	}
	for _, opt := range opts {
		opt(e)
	}
	e.eval.SetConstraintSet(set)
	return e, nil
}

func newLogger(cfg Config) zerolog.Logger {
	if !cfg.EnableLogging {
		return zerolog.Nop()
	}
	level, _ := parseLogLevel(cfg.LogLevel)
	return zerolog.New(os.Stderr).With().Timestamp().Str("component", "solver").Logger().Level(level)
}

// Solve runs the configured exploration strategy and returns the solutions
// found. Exploration errors are wrapped in a *SolverError.
func (e *Engine) Solve() ([]*design.Object, error) {
	return e.SolveWithStrategy(e.cfg.ExplorationStrategy)
}

// SolveWithStrategy runs one strategy regardless of the configured one.
func (e *Engine) SolveWithStrategy(strategy string) ([]*design.Object, error) {
	e.log.Info().
		Str("strategy", strategy).
		Int("max_iterations", e.cfg.MaxIterations).
		Int("max_solutions", e.cfg.MaxSolutions).
		Msg("exploration started")

	var err error
	switch strategy {
	case StrategyRandom:
		if e.cfg.ParallelEvaluation {
			err = e.exploreRandomParallel()
		} else {
			err = e.exploreRandom()
		}
	case StrategyBreadthFirst:
		err = e.exploreBreadthFirst()
	case StrategyDepthFirst:
		err = e.exploreDepthFirst()
	case StrategyBestFirst:
		err = e.exploreBestFirst()
	default:
		return nil, &ConfigError{Field: "exploration_strategy", Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}
	if err != nil {
		return nil, &SolverError{Op: strategy, Err: err}
	}

	progress := e.state.Progress()
	e.log.Info().
		Int("iterations", progress.Iterations).
		Int("solutions", progress.SolutionsFound).
		Int("candidates", progress.CandidatesEvaluated).
		Dur("elapsed", progress.Elapsed).
		Msg("exploration finished")
	return e.Solutions(), nil
}

// ExploreStep runs one full exploration step: generate a fresh candidate,
// validate it and record the outcome. The flag reports whether the
// candidate passed schema and constraint validation.
func (e *Engine) ExploreStep() (*design.Object, bool, error) {
	candidate, err := e.generateCandidate()
	if err != nil {
		return nil, false, err
	}
	result := e.validateCandidate(candidate)
	return candidate, result.IsValid, nil
}

// generateCandidate builds one fresh candidate: a random structure inside
// the constraint bounds with every declared variable assigned. A structural
// miss during generation is tallied against the constraint that caused it.
func (e *Engine) generateCandidate() (*design.Object, error) {
	iteration := e.state.RecordIteration()

	structure, err := e.generator.Generate(e.constraints)
	if err != nil {
		e.state.RecordDecision(DecisionEntry{
			Type:    "generate_structure",
			Outcome: "failed",
			Data:    map[string]any{"error": err.Error()},
		})
		var genErr *generate.GenerationError
		if errors.As(err, &genErr) && genErr.ConstraintID != "" {
			e.state.RecordViolation("", constraint.Violation{
				ConstraintID: genErr.ConstraintID,
				Category:     constraint.Structural,
				Message:      genErr.Reason,
				Severity:     constraint.SeverityError,
			})
		}
		return nil, err
	}

	vars, err := e.assigner.Assign(structure, e.cfg.VariableAssignmentStrategy)
	if err != nil {
		e.state.RecordDecision(DecisionEntry{
			Type:    "assign_variables",
			Outcome: "failed",
			Data:    map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	return e.newCandidate(iteration, structure, vars), nil
}

// newCandidate wraps a structure and assignment in a design object tagged
// with generation metadata.
func (e *Engine) newCandidate(iteration int, s *design.Structure, vars *variable.Assignment) *design.Object {
	id := fmt.Sprintf("candidate_%d_%s", iteration, uuid.NewString()[:8])
	return design.NewObject(id, s, vars, map[string]any{
		"generation_strategy": e.cfg.StructureGenerationStrategy,
		"iteration":           iteration,
		"timestamp":           time.Now().Format(time.RFC3339Nano),
	})
}

// deriveCandidate builds a candidate from an already-known structure, used
// by strategies that expand variants of earlier candidates. Each derived
// candidate consumes an iteration of the budget.
func (e *Engine) deriveCandidate(s *design.Structure) (*design.Object, error) {
	iteration := e.state.RecordIteration()
	vars, err := e.assigner.Assign(s, e.cfg.VariableAssignmentStrategy)
	if err != nil {
		return nil, err
	}
	return e.newCandidate(iteration, s, vars), nil
}

// evaluateCandidate runs schema validation and, when it passes, constraint
// evaluation. A schema failure short-circuits: the candidate is rejected on
// the schema violations alone. It does not touch the exploration state, so
// it is safe to call from parallel workers.
func (e *Engine) evaluateCandidate(d *design.Object) evaluator.Result {
	compute := func() evaluator.Result {
		if e.cfg.EnableSchemaValidation {
			if violations := e.schemaViolations(d); len(violations) > 0 {
				return evaluator.Result{IsValid: false, Violations: violations}
			}
		}
		violations := []constraint.Violation{}
		if e.cfg.EnableConstraintValidation {
			violations = append(violations, e.eval.Evaluate(d).Violations...)
		}
		return evaluator.Result{IsValid: len(violations) == 0, Violations: violations}
	}

	if e.cache != nil {
		return e.cache.GetOrCompute(d, compute)
	}
	return compute()
}

func (e *Engine) schemaViolations(d *design.Object) []constraint.Violation {
	doc, err := d.ToMap()
	if err != nil {
		return []constraint.Violation{{
			ConstraintID: SchemaConstraintID,
			Category:     constraint.Structural,
			Message:      err.Error(),
			Severity:     constraint.SeverityError,
		}}
	}
	result := e.validator.Validate(doc)
	violations := make([]constraint.Violation, 0, len(result.Errors))
	for _, schemaErr := range result.Errors {
		violations = append(violations, constraint.Violation{
			ConstraintID: SchemaConstraintID,
			Category:     constraint.Structural,
			Message:      schemaErr.String(),
			Severity:     constraint.SeverityError,
			Context:      map[string]any{"path": schemaErr.Path, "design_object_id": d.ID},
		})
	}
	return violations
}

// validateCandidate evaluates a candidate and records the outcome in the
// exploration state.
func (e *Engine) validateCandidate(d *design.Object) evaluator.Result {
	result := e.evaluateCandidate(d)
	e.recordCandidate(d, result)
	return result
}

func (e *Engine) recordCandidate(d *design.Object, result evaluator.Result) {
	score := e.scoreCandidate(d, result)
	e.scores[d.ID] = score
	e.state.RecordEvaluation(d, result.IsValid, score, result.Violations)
	for _, comp := range d.Structure.Components {
		e.state.RecordComponentPerformance(comp.Type, score)
	}
	e.log.Debug().
		Str("candidate", d.ID).
		Bool("valid", result.IsValid).
		Int("violations", len(result.Violations)).
		Float64("score", score).
		Msg("candidate evaluated")
}

// scoreCandidate rates a candidate for score-guided search. The heuristic
// prefers structures near three components and two relationships, rewards
// assigned variables, and dominates everything with validity.
func (e *Engine) scoreCandidate(d *design.Object, result evaluator.Result) float64 {
	score := 0.0
	score += 1.0 - math.Abs(float64(len(d.Structure.Components))-3.0)/10.0
	score += 1.0 - math.Abs(float64(len(d.Structure.Relationships))-2.0)/10.0
	if n := len(d.Variables.Values); n > 0 {
		score += math.Min(float64(n)/10.0, 1.0)
	}
	if result.IsValid {
		score += 5.0
	} else if total := e.eval.ConstraintCount(); total > 0 {
		score += (1.0 - float64(len(result.Violations))/float64(total)) * 2.0
	}
	return math.Max(score, 0.0)
}

// acceptSolution adds a valid candidate to the solution list.
func (e *Engine) acceptSolution(d *design.Object) {
	e.solutions = append(e.solutions, d)
	e.state.RecordSolution(d.ID, e.scores[d.ID])
	e.state.RecordDecision(DecisionEntry{
		Type:    "accept_solution",
		Outcome: "solution",
		Data:    map[string]any{"candidate": d.ID, "score": e.scores[d.ID]},
	})
	e.log.Info().
		Str("candidate", d.ID).
		Int("solutions", len(e.solutions)).
		Msg("solution found")
}

func (e *Engine) budgetLeft() bool {
	return e.state.IterationCount < e.cfg.MaxIterations && len(e.solutions) < e.cfg.MaxSolutions
}

// Solutions returns a copy of the solutions found so far.
func (e *Engine) Solutions() []*design.Object {
	out := make([]*design.Object, len(e.solutions))
	copy(out, e.solutions)
	return out
}

// BestSolutions returns up to n solutions ordered by score, best first.
func (e *Engine) BestSolutions(n int) []*design.Object {
	out := e.Solutions()
	sort.SliceStable(out, func(i, j int) bool {
		return e.scores[out[i].ID] > e.scores[out[j].ID]
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FilterSolutions returns the solutions the predicate keeps.
func (e *Engine) FilterSolutions(keep func(*design.Object) bool) []*design.Object {
	var out []*design.Object
	for _, d := range e.solutions {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Score returns the recorded score for a candidate id.
func (e *Engine) Score(id string) (float64, bool) {
	score, ok := e.scores[id]
	return score, ok
}

// State exposes the exploration state for inspection.
func (e *Engine) State() *ExplorationState { return e.state }

// CacheStats reports evaluation cache effectiveness. The second return is
// false when caching is disabled.
func (e *Engine) CacheStats() (cache.Stats, bool) {
	if e.cache == nil {
		return cache.Stats{}, false
	}
	return e.cache.Stats(), true
}

// ClearSolutions drops the found solutions but keeps the exploration state.
func (e *Engine) ClearSolutions() {
	e.solutions = nil
}

// Reset returns the engine to its initial state: no solutions, fresh
// counters, empty cache, reseeded generators.
func (e *Engine) Reset() {
	e.solutions = nil
	e.scores = make(map[string]float64)
	e.state.Reset()
	e.generator = generate.NewStructureGenerator(e.cfg.Seed)
	e.assigner = generate.NewVariableAssigner(e.cfg.Seed + 1)
	if e.cache != nil {
		e.cache.Purge()
	}
}

// SolutionStatistics summarizes the found solutions.
type SolutionStatistics struct {
	Count                int     `json:"count"`
	AverageComponents    float64 `json:"average_components"`
	AverageRelationships float64 `json:"average_relationships"`
	AverageVariables     float64 `json:"average_variables"`
	AverageScore         float64 `json:"average_score"`
}

// Statistics computes aggregate statistics over the solutions.
func (e *Engine) Statistics() SolutionStatistics {
	stats := SolutionStatistics{Count: len(e.solutions)}
	if stats.Count == 0 {
		return stats
	}
	var components, relationships, variables, score float64
	for _, d := range e.solutions {
		components += float64(len(d.Structure.Components))
		relationships += float64(len(d.Structure.Relationships))
		variables += float64(len(d.Variables.Values))
		score += e.scores[d.ID]
	}
	n := float64(stats.Count)
	stats.AverageComponents = components / n
	stats.AverageRelationships = relationships / n
	stats.AverageVariables = variables / n
	stats.AverageScore = score / n
	return stats
}

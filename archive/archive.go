// Package archive provides SQLite-backed persistence for exploration runs.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/results"
	"github.com/dsxplore/go-dsx/solver"
)

// Store handles SQLite database operations for run archiving.
type Store struct {
	db *sql.DB
}

// Run represents one archived exploration run.
type Run struct {
	ID                  string     `json:"id"`
	Strategy            string     `json:"strategy"`
	Seed                int64      `json:"seed"`
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	MaxIterations       int        `json:"max_iterations"`
	MaxSolutions        int        `json:"max_solutions"`
	Iterations          int        `json:"iterations"`
	CandidatesEvaluated int        `json:"candidates_evaluated"`
	SolutionsFound      int        `json:"solutions_found"`
	Status              string     `json:"status"`
}

// Solution represents one archived solution of a run.
type Solution struct {
	ID                int64          `json:"id"`
	RunID             string         `json:"run_id"`
	SolutionID        string         `json:"solution_id"`
	Rank              int            `json:"rank"`
	Score             float64        `json:"score"`
	ComponentCount    int            `json:"component_count"`
	RelationshipCount int            `json:"relationship_count"`
	VariableCount     int            `json:"variable_count"`
	Design            *design.Object `json:"design,omitempty"`
}

// New creates a new Store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		seed INTEGER NOT NULL,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		max_iterations INTEGER NOT NULL,
		max_solutions INTEGER NOT NULL,
		iterations INTEGER DEFAULT 0,
		candidates_evaluated INTEGER DEFAULT 0,
		solutions_found INTEGER DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'running'
	);

	CREATE TABLE IF NOT EXISTS solutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		solution_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		score REAL NOT NULL,
		component_count INTEGER NOT NULL,
		relationship_count INTEGER NOT NULL,
		variable_count INTEGER NOT NULL,
		design TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_solutions_run ON solutions(run_id);
	CREATE INDEX IF NOT EXISTS idx_solutions_run_rank ON solutions(run_id, rank);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateRun creates a new run record.
func (s *Store) CreateRun(id string, cfg solver.Config) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, strategy, seed, started_at, max_iterations, max_solutions)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, cfg.ExplorationStrategy, cfg.Seed, time.Now().UTC(), cfg.MaxIterations, cfg.MaxSolutions,
	)
	return err
}

// FinishRun marks a run as finished and stores its final counters.
func (s *Store) FinishRun(id string, progress solver.Progress, status string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, iterations = ?, candidates_evaluated = ?,
		 solutions_found = ?, status = ?
		 WHERE id = ?`,
		time.Now().UTC(), progress.Iterations, progress.CandidatesEvaluated,
		progress.SolutionsFound, status, id,
	)
	return err
}

// SaveSolutions stores the solutions of a run in one transaction.
func (s *Store) SaveSolutions(runID string, solutions []results.Solution) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO solutions (run_id, solution_id, rank, score,
		 component_count, relationship_count, variable_count, design)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sol := range solutions {
		payload, err := json.Marshal(sol.Design)
		if err != nil {
			return fmt.Errorf("encode design %s: %w", sol.ID, err)
		}
		if _, err := stmt.Exec(runID, sol.ID, sol.Rank, sol.Score,
			sol.ComponentCount, sol.RelationshipCount, sol.VariableCount, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveReport archives a full report under the given run id.
func (s *Store) SaveReport(runID string, cfg solver.Config, report *results.Report) error {
	if err := s.CreateRun(runID, cfg); err != nil {
		return err
	}
	if err := s.SaveSolutions(runID, report.Solutions); err != nil {
		return err
	}
	progress := solver.Progress{
		Iterations:          report.Run.Iterations,
		SolutionsFound:      len(report.Solutions),
		CandidatesEvaluated: report.Run.CandidatesEvaluated,
	}
	return s.FinishRun(runID, progress, report.Metadata.Status)
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, strategy, seed, started_at, finished_at, max_iterations,
		 max_solutions, iterations, candidates_evaluated, solutions_found, status
		 FROM runs WHERE id = ?`, id,
	)
	return scanRun(row.Scan)
}

// RecentRuns returns the most recent runs.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, strategy, seed, started_at, finished_at, max_iterations,
		 max_solutions, iterations, candidates_evaluated, solutions_found, status
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunsBySeed retrieves runs by seed, newest first.
func (s *Store) RunsBySeed(seed int64) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, strategy, seed, started_at, finished_at, max_iterations,
		 max_solutions, iterations, candidates_evaluated, solutions_found, status
		 FROM runs WHERE seed = ? ORDER BY started_at DESC`, seed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scan func(...any) error) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime
	err := scan(&run.ID, &run.Strategy, &run.Seed, &run.StartedAt, &finishedAt,
		&run.MaxIterations, &run.MaxSolutions, &run.Iterations,
		&run.CandidatesEvaluated, &run.SolutionsFound, &run.Status)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}

// GetSolutions retrieves all solutions for a run, best rank first.
func (s *Store) GetSolutions(runID string) ([]*Solution, error) {
	return s.querySolutions(
		`SELECT id, run_id, solution_id, rank, score, component_count,
		 relationship_count, variable_count, design
		 FROM solutions WHERE run_id = ? ORDER BY rank`, runID,
	)
}

// BestSolutions retrieves the top-ranked solutions for a run.
func (s *Store) BestSolutions(runID string, limit int) ([]*Solution, error) {
	return s.querySolutions(
		`SELECT id, run_id, solution_id, rank, score, component_count,
		 relationship_count, variable_count, design
		 FROM solutions WHERE run_id = ? ORDER BY rank LIMIT ?`, runID, limit,
	)
}

func (s *Store) querySolutions(query string, args ...any) ([]*Solution, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solutions []*Solution
	for rows.Next() {
		var sol Solution
		var payload string
		err := rows.Scan(&sol.ID, &sol.RunID, &sol.SolutionID, &sol.Rank, &sol.Score,
			&sol.ComponentCount, &sol.RelationshipCount, &sol.VariableCount, &payload)
		if err != nil {
			return nil, err
		}
		d, err := design.FromJSON([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode design for %s: %w", sol.SolutionID, err)
		}
		sol.Design = d
		solutions = append(solutions, &sol)
	}
	return solutions, rows.Err()
}

// ExportRunJSON exports a run and its solutions as JSON.
func (s *Store) ExportRunJSON(runID string) ([]byte, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}

	solutions, err := s.GetSolutions(runID)
	if err != nil {
		return nil, err
	}

	export := map[string]any{
		"run":       run,
		"solutions": solutions,
	}

	return json.MarshalIndent(export, "", "  ")
}

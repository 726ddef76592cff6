package results

import (
	"fmt"
	"sort"
)

// ObjectiveFunc evaluates how good a solution is (lower is better)
type ObjectiveFunc func(Solution) (float64, error)

// Objectives maps objective names to evaluation functions
var Objectives = map[string]ObjectiveFunc{
	"maximize_score": func(s Solution) (float64, error) {
		return -s.Score, nil // Negate for maximization
	},

	"minimize_components": func(s Solution) (float64, error) {
		return float64(s.ComponentCount), nil
	},

	"maximize_components": func(s Solution) (float64, error) {
		return -float64(s.ComponentCount), nil
	},

	"minimize_relationships": func(s Solution) (float64, error) {
		return float64(s.RelationshipCount), nil
	},

	"maximize_variables": func(s Solution) (float64, error) {
		return -float64(s.VariableCount), nil
	},
}

// RankSolutions sorts solutions by score (best first) and assigns ranks
func RankSolutions(solutions []Solution) {
	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].Score > solutions[j].Score
	})
	for i := range solutions {
		solutions[i].Rank = i + 1
	}
}

// RankBy sorts solutions under a named objective and assigns ranks.
// Solutions the objective cannot score sink to the bottom.
func RankBy(solutions []Solution, objective string) error {
	fn, ok := Objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective %q", objective)
	}

	type scored struct {
		value float64
		err   error
	}
	values := make([]scored, len(solutions))
	for i, s := range solutions {
		v, err := fn(s)
		values[i] = scored{value: v, err: err}
	}

	indexes := make([]int, len(solutions))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		va, vb := values[indexes[a]], values[indexes[b]]
		if (va.err == nil) != (vb.err == nil) {
			return va.err == nil
		}
		return va.value < vb.value
	})

	reordered := make([]Solution, len(solutions))
	for rank, idx := range indexes {
		reordered[rank] = solutions[idx]
		reordered[rank].Rank = rank + 1
	}
	copy(solutions, reordered)
	return nil
}

// Best returns the top-ranked solution
func Best(solutions []Solution) (Solution, bool) {
	if len(solutions) == 0 {
		return Solution{}, false
	}
	best := solutions[0]
	for _, s := range solutions[1:] {
		if s.Rank != 0 && (best.Rank == 0 || s.Rank < best.Rank) {
			best = s
		}
	}
	return best, true
}

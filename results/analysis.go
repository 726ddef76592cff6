package results

import (
	"fmt"
	"math"
	"sort"
)

// Analyzer computes insights from a finished report
type Analyzer struct {
	report *Report
}

// NewAnalyzer creates an analyzer for a report
func NewAnalyzer(r *Report) *Analyzer {
	return &Analyzer{report: r}
}

// ComputeAll runs all analysis functions
func (a *Analyzer) ComputeAll() *Analysis {
	analysis := &Analysis{
		TypeFrequencies: make(map[string]int),
		EdgeFrequencies: make(map[string]int),
	}

	var components, relationships, variables, scores []float64
	for _, s := range a.report.Solutions {
		components = append(components, float64(s.ComponentCount))
		relationships = append(relationships, float64(s.RelationshipCount))
		variables = append(variables, float64(s.VariableCount))
		scores = append(scores, s.Score)

		for typ, count := range s.ComponentTypes {
			analysis.TypeFrequencies[typ] += count
		}
		if s.Design != nil {
			for _, rel := range s.Design.Structure.Relationships {
				analysis.EdgeFrequencies[rel.Type]++
			}
		}
	}

	analysis.Components = computeStats(components)
	analysis.Relationships = computeStats(relationships)
	analysis.Variables = computeStats(variables)
	analysis.Scores = computeStats(scores)
	analysis.Recommended = a.recommend(analysis)

	return analysis
}

// recommend derives human-readable hints from the solution population
func (a *Analyzer) recommend(analysis *Analysis) map[string]string {
	rec := make(map[string]string)
	if len(a.report.Solutions) == 0 {
		if len(analysis.ViolatedTop) > 0 {
			rec["blocking_constraint"] = fmt.Sprintf(
				"constraint %q blocked candidates %d times; relax it or widen the generation bounds",
				analysis.ViolatedTop[0].ConstraintID, analysis.ViolatedTop[0].Count)
		}
		return rec
	}

	best := a.report.Solutions[0]
	for _, s := range a.report.Solutions {
		if s.Rank == 1 {
			best = s
		}
	}
	rec["best_solution"] = fmt.Sprintf("%s scores %.2f with %d components and %d relationships",
		best.ID, best.Score, best.ComponentCount, best.RelationshipCount)

	if mostCommon, count := maxEntry(analysis.TypeFrequencies); mostCommon != "" {
		rec["dominant_type"] = fmt.Sprintf("%q appears %d times across solutions", mostCommon, count)
	}
	return rec
}

func maxEntry(freq map[string]int) (string, int) {
	best, bestCount := "", 0
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if freq[k] > bestCount {
			best, bestCount = k, freq[k]
		}
	}
	return best, bestCount
}

// Comparison describes how two solutions differ
type Comparison struct {
	FirstID           string   `json:"firstId"`
	SecondID          string   `json:"secondId"`
	ComponentDelta    int      `json:"componentDelta"`
	RelationshipDelta int      `json:"relationshipDelta"`
	ScoreDelta        float64  `json:"scoreDelta"`
	SharedTypes       []string `json:"sharedTypes,omitempty"`
	OnlyInFirst       []string `json:"onlyInFirst,omitempty"`
	OnlyInSecond      []string `json:"onlyInSecond,omitempty"`
}

// Compare reports the structural differences between two solutions
func Compare(first, second Solution) Comparison {
	c := Comparison{
		FirstID:           first.ID,
		SecondID:          second.ID,
		ComponentDelta:    first.ComponentCount - second.ComponentCount,
		RelationshipDelta: first.RelationshipCount - second.RelationshipCount,
		ScoreDelta:        first.Score - second.Score,
	}
	for typ := range first.ComponentTypes {
		if _, ok := second.ComponentTypes[typ]; ok {
			c.SharedTypes = append(c.SharedTypes, typ)
		} else {
			c.OnlyInFirst = append(c.OnlyInFirst, typ)
		}
	}
	for typ := range second.ComponentTypes {
		if _, ok := first.ComponentTypes[typ]; !ok {
			c.OnlyInSecond = append(c.OnlyInSecond, typ)
		}
	}
	sort.Strings(c.SharedTypes)
	sort.Strings(c.OnlyInFirst)
	sort.Strings(c.OnlyInSecond)
	return c
}

// computeStats calculates statistical summary
func computeStats(data []float64) Stat {
	if len(data) == 0 {
		return Stat{}
	}

	min := data[0]
	max := data[0]
	sum := 0.0
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(data))

	sumSq := 0.0
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(len(data)))

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	return Stat{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
		Std:    std,
		Total:  sum,
	}
}

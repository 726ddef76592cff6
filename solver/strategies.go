package solver

import (
	"container/heap"
	"runtime"
	"sync"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/evaluator"
)

// Variant expansion widths. Invalid candidates are expanded into at most
// this many single-edit successors, narrowing as the search deepens.
const (
	initialVariantWidth = 5
	refillVariantWidth  = 3
	expandVariantWidth  = 2
)

// Depth-first search parameters.
const (
	depthFirstMaxDepth = 5
	depthFirstMaxSeeds = 10
)

// exploreRandom samples independent candidates until the budget runs out.
func (e *Engine) exploreRandom() error {
	for e.budgetLeft() {
		candidate, valid, err := e.ExploreStep()
		if err != nil {
			e.log.Debug().Err(err).Msg("candidate generation failed")
			continue
		}
		if valid {
			e.acceptSolution(candidate)
		}
	}
	return nil
}

// exploreRandomParallel is exploreRandom with batched concurrent
// evaluation. Generation stays serial so seeded runs remain reproducible;
// only the validation work fans out.
func (e *Engine) exploreRandomParallel() error {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}

	for e.budgetLeft() {
		batch := make([]*design.Object, 0, workers)
		for len(batch) < workers && e.budgetLeft() {
			candidate, err := e.generateCandidate()
			if err != nil {
				e.log.Debug().Err(err).Msg("candidate generation failed")
				continue
			}
			batch = append(batch, candidate)
		}
		if len(batch) == 0 {
			continue
		}

		results := make([]evaluator.Result, len(batch))
		var wg sync.WaitGroup
		for i, candidate := range batch {
			wg.Add(1)
			go func(i int, candidate *design.Object) {
				defer wg.Done()
				results[i] = e.evaluateCandidate(candidate)
			}(i, candidate)
		}
		wg.Wait()

		// State updates and acceptance stay on the calling goroutine.
		for i, candidate := range batch {
			e.recordCandidate(candidate, results[i])
			if results[i].IsValid && len(e.solutions) < e.cfg.MaxSolutions {
				e.acceptSolution(candidate)
			}
		}
	}
	return nil
}

// exploreBreadthFirst expands invalid candidates into a FIFO frontier of
// structure variants, refilling with fresh candidates when it drains.
func (e *Engine) exploreBreadthFirst() error {
	var queue []*design.Structure

	if candidate, valid, err := e.ExploreStep(); err == nil {
		if valid {
			e.acceptSolution(candidate)
		} else {
			queue = append(queue, firstN(e.generator.Variants(candidate.Structure), initialVariantWidth)...)
		}
	}

	for e.budgetLeft() {
		if len(queue) == 0 {
			candidate, valid, err := e.ExploreStep()
			if err != nil {
				continue
			}
			if valid {
				e.acceptSolution(candidate)
			} else {
				queue = append(queue, firstN(e.generator.Variants(candidate.Structure), refillVariantWidth)...)
			}
			continue
		}

		next := queue[0]
		queue = queue[1:]
		candidate, err := e.deriveCandidate(next)
		if err != nil {
			continue
		}
		if result := e.validateCandidate(candidate); result.IsValid {
			e.acceptSolution(candidate)
		} else {
			queue = append(queue, firstN(e.generator.Variants(candidate.Structure), expandVariantWidth)...)
		}
	}
	return nil
}

// exploreDepthFirst follows each seed candidate down a chain of variants
// before moving to the next seed.
func (e *Engine) exploreDepthFirst() error {
	seeds := e.cfg.MaxIterations / depthFirstMaxDepth
	if seeds > depthFirstMaxSeeds {
		seeds = depthFirstMaxSeeds
	}
	if seeds < 1 {
		seeds = 1
	}

	for i := 0; i < seeds && e.budgetLeft(); i++ {
		candidate, valid, err := e.ExploreStep()
		if err != nil {
			e.log.Debug().Err(err).Msg("seed generation failed")
			continue
		}
		e.descend(candidate, valid, 0)
	}
	return nil
}

func (e *Engine) descend(candidate *design.Object, valid bool, depth int) {
	if valid {
		e.acceptSolution(candidate)
		return
	}
	if depth+1 >= depthFirstMaxDepth {
		return
	}
	for _, variant := range firstN(e.generator.Variants(candidate.Structure), expandVariantWidth) {
		if !e.budgetLeft() {
			return
		}
		child, err := e.deriveCandidate(variant)
		if err != nil {
			continue
		}
		e.descend(child, e.validateCandidate(child).IsValid, depth+1)
	}
}

// exploreBestFirst keeps a priority queue of scored candidates and always
// expands the most promising one.
func (e *Engine) exploreBestFirst() error {
	pool := e.cfg.MaxIterations / 10
	if pool > 5 {
		pool = 5
	}
	if pool < 1 {
		pool = 1
	}

	frontier := &candidateHeap{}
	heap.Init(frontier)
	order := 0
	push := func(candidate *design.Object, valid bool) {
		heap.Push(frontier, scoredItem{
			score:     e.scores[candidate.ID],
			order:     order,
			candidate: candidate,
			valid:     valid,
		})
		order++
	}

	for i := 0; i < pool && e.budgetLeft(); i++ {
		candidate, valid, err := e.ExploreStep()
		if err != nil {
			continue
		}
		push(candidate, valid)
	}

	for frontier.Len() > 0 && e.budgetLeft() {
		item := heap.Pop(frontier).(scoredItem)
		if item.valid {
			e.acceptSolution(item.candidate)
			continue
		}
		for _, variant := range e.generator.Variants(item.candidate.Structure) {
			if !e.budgetLeft() {
				break
			}
			child, err := e.deriveCandidate(variant)
			if err != nil {
				continue
			}
			push(child, e.validateCandidate(child).IsValid)
		}
	}
	return nil
}

type scoredItem struct {
	score     float64
	order     int
	candidate *design.Object
	valid     bool
}

// candidateHeap pops the highest score first; ties go to the older entry.
type candidateHeap []scoredItem

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	return h[i].order < h[j].order
}
func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(scoredItem)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// Package cache provides memoization for constraint evaluation.
// Caching speeds up exploration when the same candidate shape is evaluated
// repeatedly, which happens often with variant-based strategies.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dsxplore/go-dsx/design"
	"github.com/dsxplore/go-dsx/evaluator"
)

// DefaultSize bounds the cache when no size is configured.
const DefaultSize = 1000

// Key returns a deterministic digest over everything evaluation can see:
// components and relationships including their properties, plus the sorted
// variable values. Designs that evaluate identically share a key regardless
// of id, metadata or element order.
func Key(d *design.Object) string {
	comps := make([]string, 0, len(d.Structure.Components))
	for _, c := range d.Structure.Components {
		// json.Marshal renders map keys sorted, so the digest is stable.
		props, _ := json.Marshal(c.Properties)
		comps = append(comps, c.ID+":"+c.Type+":"+string(props))
	}
	sort.Strings(comps)

	rels := make([]string, 0, len(d.Structure.Relationships))
	for _, r := range d.Structure.Relationships {
		props, _ := json.Marshal(r.Properties)
		rels = append(rels, r.ID+":"+r.SourceID+">"+r.TargetID+":"+r.Type+":"+string(props))
	}
	sort.Strings(rels)

	names := make([]string, 0, len(d.Variables.Values))
	for name := range d.Variables.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, c := range comps {
		fmt.Fprintf(h, "%s;", c)
	}
	h.Write([]byte("|"))
	for _, r := range rels {
		fmt.Fprintf(h, "%s;", r)
	}
	h.Write([]byte("|"))
	for _, name := range names {
		fmt.Fprintf(h, "%s=%v;", name, d.Variables.Values[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EvaluationCache is a fixed-capacity LRU of evaluation results keyed by
// design digest. Safe for concurrent use.
type EvaluationCache struct {
	mu     sync.Mutex
	lru    *lru.Cache[string, evaluator.Result]
	hits   int64
	misses int64
}

// NewEvaluationCache creates a cache holding up to size entries.
// Non-positive sizes fall back to DefaultSize.
func NewEvaluationCache(size int) *EvaluationCache {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New fails only for non-positive sizes, filtered above.
	c, _ := lru.New[string, evaluator.Result](size)
	return &EvaluationCache{lru: c}
}

// Get returns the cached result for the design, if present.
func (c *EvaluationCache) Get(d *design.Object) (evaluator.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.lru.Get(Key(d))
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return result, ok
}

// Put stores the result for the design, evicting the least recently used
// entry when full.
func (c *EvaluationCache) Put(d *design.Object, result evaluator.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(Key(d), result)
}

// GetOrCompute returns the cached result or computes and caches it.
func (c *EvaluationCache) GetOrCompute(d *design.Object, compute func() evaluator.Result) evaluator.Result {
	if result, ok := c.Get(d); ok {
		return result
	}
	result := compute()
	c.Put(d, result)
	return result
}

// Len returns the number of cached entries.
func (c *EvaluationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry and resets the counters.
func (c *EvaluationCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.hits, c.misses = 0, 0
}

// Stats describes cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the counters.
func (c *EvaluationCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    c.lru.Len(),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

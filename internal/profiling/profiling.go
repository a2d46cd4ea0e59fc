// Package profiling gives a Renderer a lightweight per-stage timing
// breakdown, the CPU-only stand-in spec §9 calls for in place of the
// original's reflection-based benchmark probe. Unlike the teacher's
// frame profiler this is an instance, not a package-level singleton,
// since spec §5 requires independent Renderers to share no state.
package profiling

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates named durations across calls until Reset.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

// New returns an empty Profiler.
func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under
// name. Usage: defer p.Track("mesh.Build")()
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() {
		p.Add(name, time.Since(start))
	}
}

// Add adds an arbitrary duration under name to the current totals.
func (p *Profiler) Add(name string, d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.totals[name] += d
	p.mu.Unlock()
}

// Reset clears all accumulated totals.
func (p *Profiler) Reset() {
	p.mu.Lock()
	clear(p.totals)
	p.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]time.Duration, len(p.totals))
	maps.Copy(out, p.totals)
	return out
}

// Total sums every tracked duration.
func (p *Profiler) Total() time.Duration {
	var sum time.Duration
	for _, v := range p.Snapshot() {
		sum += v
	}
	return sum
}

// TopN formats the N slowest-tracked stages, e.g.
// "mesh.Build:1.2ms, raster.Render:0.4ms".
func (p *Profiler) TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	snap := p.Snapshot()
	list := make([]pair, 0, len(snap))
	for k, v := range snap {
		list = append(list, pair{k, v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts[i] = fmt.Sprintf("%s:%.1fms", list[i].name, ms)
	}
	return strings.Join(parts, ", ")
}

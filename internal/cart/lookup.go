package cart

import "sync"

// lookupGuard tracks a generation number per lookup key so that a response
// arriving after a newer request for the same key can be discarded. The
// original client fired catalog fetches without cancellation; this guard is
// what keeps a late response from overwriting fresher state.
type lookupGuard struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func newLookupGuard() *lookupGuard {
	return &lookupGuard{gens: make(map[string]uint64)}
}

// begin registers a new request for key and returns its generation.
func (g *lookupGuard) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
	return g.gens[key]
}

// isCurrent reports whether gen is still the newest request for key.
func (g *lookupGuard) isCurrent(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key] == gen
}

package filter

import (
	"sync"
	"time"
)

// GlowSet tracks which keys were recognized recently, for transient UI
// highlighting. Each key glows for the configured window; re-recognizing a key
// while it is already glowing extends the single active window rather than
// stacking a second one.
type GlowSet struct {
	mu        sync.Mutex
	deadlines map[Key]time.Time
	ttl       time.Duration
	now       func() time.Time
}

const DefaultGlowTTL = 2500 * time.Millisecond

func NewGlowSet(ttl time.Duration) *GlowSet {
	if ttl <= 0 {
		ttl = DefaultGlowTTL
	}
	return &GlowSet{
		deadlines: make(map[Key]time.Time),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Mark starts (or extends) the glow window for each key.
func (g *GlowSet) Mark(keys ...Key) {
	g.mu.Lock()
	defer g.mu.Unlock()
	deadline := g.now().Add(g.ttl)
	for _, k := range keys {
		g.deadlines[k] = deadline
	}
}

// Active returns the keys whose glow window has not yet expired. Expired
// entries are pruned as a side effect.
func (g *GlowSet) Active() []Key {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	var active []Key
	for k, deadline := range g.deadlines {
		if now.Before(deadline) {
			active = append(active, k)
		} else {
			delete(g.deadlines, k)
		}
	}
	return active
}

// Contains reports whether a single key is currently glowing.
func (g *GlowSet) Contains(k Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	deadline, ok := g.deadlines[k]
	return ok && g.now().Before(deadline)
}

// Clear drops all glow state, e.g. on cancel.
func (g *GlowSet) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deadlines = make(map[Key]time.Time)
}

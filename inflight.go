package subpay

import (
	"strings"
	"sync"
)

// inflightGuard serializes payment attempts per user address. A second
// attempt for an address with one already running is rejected rather
// than queued, preventing accidental double charges from client retries.
type inflightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[string]struct{})}
}

// acquire marks the address as having an attempt in flight. Returns
// false if one is already running.
func (g *inflightGuard) acquire(address string) bool {
	key := strings.ToLower(address)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.active[key]; exists {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// release clears the in-flight marker for the address.
func (g *inflightGuard) release(address string) {
	key := strings.ToLower(address)

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

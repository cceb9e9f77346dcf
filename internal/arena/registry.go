package arena

import (
	"sync"
	"time"

	"github.com/DevelopmentCats/meowventure/internal/engine"
)

// battleEntry pairs a controller with its own lock so turns on different
// battles never serialize against each other.
type battleEntry struct {
	mu      sync.Mutex
	ctrl    *engine.Controller
	created time.Time
	touched time.Time
}

// Registry is the in-memory index of live battles. The outer RWMutex only
// guards the map; per-battle work happens under the entry lock.
type Registry struct {
	mu      sync.RWMutex
	battles map[string]*battleEntry
}

func NewRegistry() *Registry {
	return &Registry{battles: map[string]*battleEntry{}}
}

func (r *Registry) add(id string, ctrl *engine.Controller) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.battles[id] = &battleEntry{ctrl: ctrl, created: now, touched: now}
}

func (r *Registry) get(id string) (*battleEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.battles[id]
	return e, ok
}

// Remove drops a battle from the index. The entry itself may still be in
// use by a caller holding its lock; the map simply stops handing it out.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.battles[id]; !ok {
		return false
	}
	delete(r.battles, id)
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}

// idleSince lists battle ids whose last activity predates the cutoff.
func (r *Registry) idleSince(cutoff time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for id, e := range r.battles {
		if e.touched.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out
}

package viz

import "sync"

// BuildFunc constructs a fresh visualizer for a page on first use.
type BuildFunc func(page string) (*Visualizer, error)

// Registry hands out one live visualizer per page. Instances never share
// simulation state; replacing or clearing a page stops its instance first.
type Registry struct {
	build BuildFunc

	mu   sync.Mutex
	live map[string]*Visualizer
}

// NewRegistry creates a registry that builds instances with build.
func NewRegistry(build BuildFunc) *Registry {
	return &Registry{build: build, live: make(map[string]*Visualizer)}
}

// Get returns the page's visualizer, constructing it on first request.
func (r *Registry) Get(page string) (*Visualizer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.live[page]; ok {
		return v, nil
	}
	v, err := r.build(page)
	if err != nil {
		return nil, err
	}
	r.live[page] = v
	return v, nil
}

// Peek returns the page's visualizer without constructing one.
func (r *Registry) Peek(page string) *Visualizer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live[page]
}

// StopAll tears down every live instance; used when the site is rebuilt
// and all layouts are stale.
func (r *Registry) StopAll() {
	r.mu.Lock()
	live := r.live
	r.live = make(map[string]*Visualizer)
	r.mu.Unlock()

	for _, v := range live {
		v.Stop()
	}
}

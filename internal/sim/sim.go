// Package sim implements the force-directed layout simulation that
// positions link-graph nodes. The state is a plain value advanced by a
// pure Step function; scheduling and rendering live elsewhere.
package sim

import (
	"log/slog"
	"math/rand"
)

// Config holds the layout tuning constants. Defaults reproduce the
// visual behaviour of the generated sites' graph panel.
type Config struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// RestLength is the spring rest length for linked nodes.
	RestLength float64 `yaml:"rest_length"`
	// Charge is the magnitude of the pairwise repulsion.
	Charge float64 `yaml:"charge"`
	// Spring scales the link attraction toward RestLength.
	Spring float64 `yaml:"spring"`
	// CenterPull is the weak pull of free nodes toward canvas center.
	CenterPull float64 `yaml:"center_pull"`

	VelocityDecay float64 `yaml:"velocity_decay"`
	// AlphaDecay is the fraction of alpha retained each tick.
	AlphaDecay float64 `yaml:"alpha_decay"`
	// Epsilon is the alpha threshold below which the layout is converged.
	Epsilon float64 `yaml:"epsilon"`
	// ReheatAlpha is the restart temperature applied when a drag begins
	// on a converged layout.
	ReheatAlpha float64 `yaml:"reheat_alpha"`

	NodeRadius    float64 `yaml:"node_radius"`
	CurrentRadius float64 `yaml:"current_radius"`
}

// DefaultConfig returns the standard 220x220 layout tuning.
func DefaultConfig() Config {
	return Config{
		Width:         220,
		Height:        220,
		RestLength:    30,
		Charge:        80,
		Spring:        0.08,
		CenterPull:    0.01,
		VelocityDecay: 0.6,
		AlphaDecay:    0.98,
		Epsilon:       0.005,
		ReheatAlpha:   0.3,
		NodeRadius:    4,
		CurrentRadius: 6,
	}
}

// Node is one positioned graph node. A pinned node ignores all forces and
// is rendered exactly at (PinX, PinY) until the pin is cleared; the node
// for the page being viewed stays pinned to canvas center for its whole
// lifetime.
type Node struct {
	Path    string
	Current bool
	Radius  float64

	X, Y   float64
	VX, VY float64

	Pinned     bool
	PinX, PinY float64
	Dragged    bool
}

// Edge links two nodes by index. Undirected for layout purposes; parallel
// edges are kept and act as additive attraction.
type Edge struct {
	Source int
	Target int
}

// State is the complete simulation state. One State is owned by exactly
// one visualizer instance and must not be shared.
type State struct {
	Nodes []*Node
	Edges []Edge

	// Alpha is the decaying layout temperature. The simulation is
	// converged once Alpha falls to Epsilon or below.
	Alpha float64
	Ticks int

	cfg Config
}

// New builds a simulation state from the generator's graph description.
// Every path becomes a node placed uniformly at random within the canvas
// (from rng, so tests can seed it); the node matching currentPath is
// pinned to canvas center and drawn larger. Edges whose endpoints are not
// in paths are dropped with a warning rather than failing the layout.
func New(cfg Config, currentPath string, paths []string, links [][2]string, rng *rand.Rand) *State {
	s := &State{Alpha: 1, cfg: cfg}

	byPath := make(map[string]int, len(paths))
	for _, p := range paths {
		n := &Node{
			Path:   p,
			Radius: cfg.NodeRadius,
			X:      rng.Float64() * cfg.Width,
			Y:      rng.Float64() * cfg.Height,
		}
		if p == currentPath {
			n.Current = true
			n.Radius = cfg.CurrentRadius
			n.Pinned = true
			n.PinX, n.PinY = cfg.Width/2, cfg.Height/2
			n.X, n.Y = n.PinX, n.PinY
		}
		byPath[p] = len(s.Nodes)
		s.Nodes = append(s.Nodes, n)
	}

	for _, l := range links {
		si, ok := byPath[l[0]]
		if !ok {
			slog.Warn("sim: edge references unknown node, dropped", slog.String("source", l[0]), slog.String("target", l[1]))
			continue
		}
		ti, ok := byPath[l[1]]
		if !ok {
			slog.Warn("sim: edge references unknown node, dropped", slog.String("source", l[0]), slog.String("target", l[1]))
			continue
		}
		s.Edges = append(s.Edges, Edge{Source: si, Target: ti})
	}

	return s
}

// Config returns the layout tuning the state was built with.
func (s *State) Config() Config { return s.cfg }

// Converged reports whether alpha has decayed below the stop threshold.
func (s *State) Converged() bool { return s.Alpha <= s.cfg.Epsilon }

// Reheat raises alpha back to the restart temperature so an idle layout
// visibly reacts to a drag. A hotter simulation is left untouched.
func (s *State) Reheat() {
	if s.Alpha < s.cfg.ReheatAlpha {
		s.Alpha = s.cfg.ReheatAlpha
	}
}

// Seed overrides initial node positions with previously persisted ones.
// Pinned nodes keep their pin. Unknown paths are ignored.
func (s *State) Seed(positions map[string][2]float64) {
	for _, n := range s.Nodes {
		if n.Pinned {
			continue
		}
		if p, ok := positions[n.Path]; ok {
			n.X, n.Y = p[0], p[1]
		}
	}
}

// Positions returns the current node coordinates keyed by path.
func (s *State) Positions() map[string][2]float64 {
	out := make(map[string][2]float64, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.Path] = [2]float64{n.X, n.Y}
	}
	return out
}

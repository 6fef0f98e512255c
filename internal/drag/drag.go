// Package drag implements the pointer-drag state machine for the graph
// visualizer. A controller mutates the simulation state it was given;
// callers must serialize its methods with tick advancement (the visualizer
// event loop does this), matching a single-pointer input device.
package drag

import "github.com/starford/raido/internal/sim"

// Controller tracks at most one dragged node at a time.
type Controller struct {
	state  *sim.State
	active int // index of the node being dragged, -1 when idle
}

// NewController creates an idle controller over state.
func NewController(state *sim.State) *Controller {
	return &Controller{state: state, active: -1}
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.active >= 0 }

// Down starts a drag when (x, y) hits a node's circle. The node is pinned
// to the pointer, and an idle simulation is reheated so neighbours visibly
// react. Returns false when nothing was hit or a drag is already active.
func (c *Controller) Down(x, y float64) bool {
	if c.active >= 0 {
		return false
	}
	idx := c.hit(x, y)
	if idx < 0 {
		return false
	}
	n := c.state.Nodes[idx]
	n.Dragged = true
	n.Pinned = true
	n.PinX, n.PinY = x, y
	c.active = idx
	if c.state.Converged() {
		c.state.Reheat()
	}
	return true
}

// Move forces the dragged node to the live pointer position. The update
// takes effect on the next tick. No-op while idle.
func (c *Controller) Move(x, y float64) {
	if c.active < 0 {
		return
	}
	n := c.state.Nodes[c.active]
	n.PinX, n.PinY = x, y
}

// Up ends the drag. The current node snaps back to its permanent center
// pin; any other node is released to follow simulation forces from its
// dragged location. A stray pointer-up with no active drag is a no-op.
func (c *Controller) Up() {
	if c.active < 0 {
		return
	}
	n := c.state.Nodes[c.active]
	n.Dragged = false
	if n.Current {
		cfg := c.state.Config()
		n.PinX, n.PinY = cfg.Width/2, cfg.Height/2
	} else {
		n.Pinned = false
	}
	c.active = -1
}

// hit returns the index of the topmost node whose circle contains (x, y),
// or -1. Later nodes are drawn on top, so they are tested first.
func (c *Controller) hit(x, y float64) int {
	for i := len(c.state.Nodes) - 1; i >= 0; i-- {
		n := c.state.Nodes[i]
		dx, dy := x-n.X, y-n.Y
		if dx*dx+dy*dy <= n.Radius*n.Radius {
			return i
		}
	}
	return -1
}

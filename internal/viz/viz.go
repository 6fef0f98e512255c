// Package viz runs the per-page graph visualizer: one simulation state
// per rendered page, advanced on a frame schedule and mutated by pointer
// events.
//
// Concurrency model: a single event-loop goroutine owns the simulation
// state and the drag controller. Pointer events, render requests, and
// tick advancement are serialized through that loop, so a drag update
// takes effect on the next tick and never lands mid-integration.
package viz

import (
	"sync/atomic"
	"time"

	"github.com/starford/raido/internal/drag"
	"github.com/starford/raido/internal/sim"
	"github.com/starford/raido/internal/svg"
)

// PointerKind enumerates the pointer event types a host page forwards.
type PointerKind string

const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
)

// PointerEvent is one pointer sample in canvas coordinates.
type PointerEvent struct {
	Kind PointerKind `json:"type"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// FrameFunc receives the rendered SVG after each advanced tick.
type FrameFunc func(page string, frame []byte)

// Visualizer owns one page's simulation for its whole lifetime. Construct
// with New, tear down with Stop; a stopped visualizer leaks no ticks.
type Visualizer struct {
	page     string
	interval time.Duration
	maxLabel int
	onFrame  FrameFunc

	pointerCh chan PointerEvent
	frameReq  chan chan []byte
	stateReq  chan chan map[string][2]float64

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// New starts a visualizer over state, advancing one tick per interval
// while the simulation is hot. onFrame, if non-nil, is invoked from the
// event loop with each new frame.
func New(page string, state *sim.State, interval time.Duration, maxLabel int, onFrame FrameFunc) *Visualizer {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	v := &Visualizer{
		page:      page,
		interval:  interval,
		maxLabel:  maxLabel,
		onFrame:   onFrame,
		pointerCh: make(chan PointerEvent, 64),
		frameReq:  make(chan chan []byte),
		stateReq:  make(chan chan map[string][2]float64),
		stopCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go v.run(state)
	return v
}

// Page returns the page path this visualizer serves.
func (v *Visualizer) Page() string { return v.page }

func (v *Visualizer) run(state *sim.State) {
	defer close(v.stopped)

	ctrl := drag.NewController(state)
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-v.stopCh:
			return

		case <-ticker.C:
			if state.Converged() {
				// Idle until a drag reheats the simulation.
				continue
			}
			sim.Step(state)
			if v.onFrame != nil {
				v.onFrame(v.page, svg.Render(state, v.maxLabel))
			}

		case ev := <-v.pointerCh:
			switch ev.Kind {
			case PointerDown:
				ctrl.Down(ev.X, ev.Y)
			case PointerMove:
				ctrl.Move(ev.X, ev.Y)
			case PointerUp:
				ctrl.Up()
			}

		case resp := <-v.frameReq:
			resp <- svg.Render(state, v.maxLabel)

		case resp := <-v.stateReq:
			resp <- state.Positions()
		}
	}
}

// Pointer forwards a pointer event to the event loop. Events arriving
// after Stop are dropped.
func (v *Visualizer) Pointer(ev PointerEvent) {
	if v.closed.Load() {
		return
	}
	select {
	case v.pointerCh <- ev:
	case <-v.stopped:
	}
}

// Frame renders the current simulation state. Returns nil after Stop.
func (v *Visualizer) Frame() []byte {
	if v.closed.Load() {
		return nil
	}
	resp := make(chan []byte, 1)
	select {
	case v.frameReq <- resp:
	case <-v.stopped:
		return nil
	}
	select {
	case f := <-resp:
		return f
	case <-v.stopped:
		return nil
	}
}

// Positions returns the current node coordinates keyed by path, or nil
// after Stop.
func (v *Visualizer) Positions() map[string][2]float64 {
	if v.closed.Load() {
		return nil
	}
	resp := make(chan map[string][2]float64, 1)
	select {
	case v.stateReq <- resp:
	case <-v.stopped:
		return nil
	}
	select {
	case p := <-resp:
		return p
	case <-v.stopped:
		return nil
	}
}

// Stop terminates the event loop deterministically. Safe to call twice.
func (v *Visualizer) Stop() {
	if v.closed.CompareAndSwap(false, true) {
		close(v.stopCh)
	}
	<-v.stopped
}

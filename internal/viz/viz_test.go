package viz

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/raido/internal/sim"
)

func testState(current string, paths []string, links [][2]string) *sim.State {
	return sim.New(sim.DefaultConfig(), current, paths, links, rand.New(rand.NewSource(11)))
}

func TestFrameRendersCurrentState(t *testing.T) {
	v := New("a", testState("a", []string{"a", "b"}, [][2]string{{"a", "b"}}), time.Millisecond, 0, nil)
	defer v.Stop()

	f := v.Frame()
	if !strings.Contains(string(f), "<svg") {
		t.Fatalf("frame = %q, want svg document", f)
	}
	if !strings.Contains(string(f), `class="node current"`) {
		t.Error("frame missing current node")
	}
}

func TestTicksStopAtConvergence(t *testing.T) {
	state := testState("a", []string{"a", "b", "c"}, [][2]string{{"a", "b"}})
	v := New("a", state, time.Millisecond, 0, nil)
	defer v.Stop()

	deadline := time.After(5 * time.Second)
	for {
		var frozen bool
		select {
		case <-deadline:
			t.Fatal("simulation never converged")
		default:
			f1 := v.Frame()
			time.Sleep(20 * time.Millisecond)
			f2 := v.Frame()
			frozen = bytes.Equal(f1, f2)
		}
		if frozen {
			return // idle: identical frames with no drag in between
		}
	}
}

func TestDragReheatsAndMovesNode(t *testing.T) {
	state := testState("a", []string{"a", "b"}, [][2]string{{"a", "b"}})
	v := New("a", state, time.Millisecond, 0, nil)
	defer v.Stop()

	// Wait for convergence.
	waitIdle(t, v)

	pos := v.Positions()
	bx, by := pos["b"][0], pos["b"][1]

	v.Pointer(PointerEvent{Kind: PointerDown, X: bx, Y: by})
	v.Pointer(PointerEvent{Kind: PointerMove, X: 10, Y: 10})

	// The dragged node follows the pointer on the next ticks.
	if !eventually(func() bool {
		p := v.Positions()
		return p["b"][0] == 10 && p["b"][1] == 10
	}) {
		t.Fatalf("dragged node did not reach pointer, positions = %v", v.Positions())
	}

	v.Pointer(PointerEvent{Kind: PointerUp})

	// Released node resumes simulation from its dragged location and the
	// layout converges again with the current node still centered.
	waitIdle(t, v)
	p := v.Positions()
	cfg := sim.DefaultConfig()
	if p["a"][0] != cfg.Width/2 || p["a"][1] != cfg.Height/2 {
		t.Errorf("current node at %v, want center", p["a"])
	}
}

func TestStrayPointerUpIgnored(t *testing.T) {
	v := New("a", testState("a", []string{"a"}, nil), time.Millisecond, 0, nil)
	defer v.Stop()
	v.Pointer(PointerEvent{Kind: PointerUp})
	if v.Frame() == nil {
		t.Error("visualizer died on stray pointer-up")
	}
}

func TestStopIsIdempotentAndFinal(t *testing.T) {
	v := New("a", testState("a", []string{"a", "b"}, nil), time.Millisecond, 0, nil)
	v.Stop()
	v.Stop()
	if f := v.Frame(); f != nil {
		t.Errorf("Frame after Stop = %q, want nil", f)
	}
	v.Pointer(PointerEvent{Kind: PointerDown, X: 1, Y: 1}) // must not block or panic
}

func TestOnFrameDeliveredWhileHot(t *testing.T) {
	var mu sync.Mutex
	frames := 0
	onFrame := func(page string, frame []byte) {
		mu.Lock()
		frames++
		mu.Unlock()
	}
	v := New("a", testState("a", []string{"a", "b"}, [][2]string{{"a", "b"}}), time.Millisecond, 0, onFrame)
	defer v.Stop()

	if !eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return frames > 0
	}) {
		t.Error("no frames delivered")
	}
}

func TestRegistryOnePerPageAndStopAll(t *testing.T) {
	built := 0
	reg := NewRegistry(func(page string) (*Visualizer, error) {
		built++
		return New(page, testState(page, []string{page}, nil), time.Millisecond, 0, nil), nil
	})

	v1, err := reg.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	v2, _ := reg.Get("x")
	if v1 != v2 {
		t.Error("Get built a second instance for the same page")
	}
	vy, _ := reg.Get("y")
	if vy == v1 {
		t.Error("pages share a visualizer instance")
	}
	if built != 2 {
		t.Errorf("built = %d, want 2", built)
	}

	reg.StopAll()
	if v1.Frame() != nil || vy.Frame() != nil {
		t.Error("instances still alive after StopAll")
	}
	if reg.Peek("x") != nil {
		t.Error("registry still tracks stopped instance")
	}
}

func TestRegistryBuildError(t *testing.T) {
	reg := NewRegistry(func(page string) (*Visualizer, error) {
		return nil, fmt.Errorf("no such page: %s", page)
	})
	if _, err := reg.Get("missing"); err == nil {
		t.Error("expected build error")
	}
}

// waitIdle blocks until two consecutive frames are identical.
func waitIdle(t *testing.T, v *Visualizer) {
	t.Helper()
	if !eventually(func() bool {
		f1 := v.Frame()
		time.Sleep(20 * time.Millisecond)
		return bytes.Equal(f1, v.Frame())
	}) {
		t.Fatal("simulation never went idle")
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

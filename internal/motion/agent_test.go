package motion

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

var floor = Rect{X: 200, Y: 400, Width: 880, Height: 250}

func newTestAgent(t *testing.T, seed int64, pos Point) *Agent {
	t.Helper()
	a, err := NewAgent("bear", pos, floor, DefaultParams(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	return a
}

// tickUntil ticks in fixed steps until cond holds, failing after max ticks.
func tickUntil(t *testing.T, a *Agent, step float64, max int, cond func(*Agent) bool) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		a.Tick(step)
		if cond(a) {
			return i
		}
	}
	t.Fatalf("condition not reached after %d ticks of %vms", max, step)
	return 0
}

func TestFirstIdleElapsesIntoSingleWalk(t *testing.T) {
	a := newTestAgent(t, 1, Point{X: 900, Y: 480})

	first := a.IdleDuration()
	if first < 1000 || first > 3000 {
		t.Fatalf("first idle duration %v outside [1000, 3000]", first)
	}

	transitions := 0
	var elapsed float64
	for elapsed < first {
		prev := a.State()
		a.Tick(16)
		elapsed += 16
		if prev == Idle && a.State() == Walking {
			transitions++
		}
		if elapsed < first && a.State() != Idle {
			t.Fatalf("walking after %vms, before idle duration %v", elapsed, first)
		}
	}

	if transitions != 1 {
		t.Fatalf("expected exactly one transition to walking, got %d", transitions)
	}
	target, ok := a.Target()
	if !ok {
		t.Fatalf("walking agent has no target")
	}
	if !floor.Shrink(60).Contains(target) {
		t.Fatalf("target %+v outside inset area", target)
	}
	if a.WalkElapsed() != 0 {
		t.Fatalf("walk elapsed should reset on departure, got %v", a.WalkElapsed())
	}
}

func TestDestinationsStayInsideInsetArea(t *testing.T) {
	inner := floor.Shrink(60)
	for seed := int64(0); seed < 200; seed++ {
		a := newTestAgent(t, seed, Point{X: 400, Y: 500})
		a.Tick(a.IdleDuration())
		target, ok := a.Target()
		if !ok {
			t.Fatalf("seed %d: no target after idle duration", seed)
		}
		if !inner.Contains(target) {
			t.Fatalf("seed %d: target %+v outside %+v", seed, target, inner)
		}
	}
}

func TestWalkStepIsSpeedTimesDelta(t *testing.T) {
	a := newTestAgent(t, 7, Point{X: 200, Y: 400})
	a.Tick(a.IdleDuration())
	if a.State() != Walking {
		t.Fatalf("expected walking, got %v", a.State())
	}

	before := a.Position()
	a.Tick(100)
	after := a.Position()

	moved := math.Hypot(after.X-before.X, after.Y-before.Y)
	if math.Abs(moved-5) > 1e-9 {
		t.Fatalf("expected 5 units at 50u/s over 100ms, moved %v", moved)
	}
	if a.WalkElapsed() != 100 {
		t.Fatalf("walk elapsed = %v, want 100", a.WalkElapsed())
	}
}

func TestArrivalReturnsToIdle(t *testing.T) {
	a := newTestAgent(t, 3, Point{X: 640, Y: 520})
	a.Tick(a.IdleDuration())

	tickUntil(t, a, 50, 10000, func(a *Agent) bool { return a.State() == Idle })

	if _, ok := a.Target(); ok {
		t.Fatalf("idle agent still has a target")
	}
	if a.IdleElapsed() != 0 {
		t.Fatalf("idle elapsed not reset: %v", a.IdleElapsed())
	}
	if d := a.IdleDuration(); d < 2000 || d > 4000 {
		t.Fatalf("idle duration %v outside [2000, 4000]", d)
	}
	if !floor.Contains(a.Position()) {
		t.Fatalf("arrived at %+v outside the floor", a.Position())
	}
	if p := a.Pose(); p.Offset != 0 || p.Squash != 1 || p.Stretch != 1 {
		t.Fatalf("idle pose should be neutral, got %+v", p)
	}
}

func TestLargeDeltaDoesNotOvershoot(t *testing.T) {
	a := newTestAgent(t, 11, Point{X: 640, Y: 520})
	a.Tick(a.IdleDuration())
	target, _ := a.Target()

	a.Tick(1e6)
	if pos := a.Position(); math.Hypot(pos.X-target.X, pos.Y-target.Y) > 1e-9 {
		t.Fatalf("expected to land on target %+v, at %+v", target, pos)
	}
	a.Tick(16)
	if a.State() != Idle {
		t.Fatalf("expected arrival on next tick, state %v", a.State())
	}
}

func TestFacingFollowsDirection(t *testing.T) {
	// Start right of the floor so every destination lies to the left.
	a := newTestAgent(t, 5, Point{X: 1200, Y: 500})
	a.Tick(a.IdleDuration())
	a.Tick(16)
	if !a.FacingLeft() {
		t.Fatalf("agent walking left should face left")
	}

	b := newTestAgent(t, 5, Point{X: 0, Y: 500})
	b.Tick(b.IdleDuration())
	b.Tick(16)
	if b.FacingLeft() {
		t.Fatalf("agent walking right should face right")
	}
}

func TestDepthTracksY(t *testing.T) {
	a := newTestAgent(t, 2, Point{X: 300, Y: 450})
	if a.Depth() != 450 {
		t.Fatalf("depth = %v, want 450", a.Depth())
	}
	a.Tick(a.IdleDuration())
	a.Tick(500)
	if a.Depth() != a.Position().Y {
		t.Fatalf("depth %v does not follow y %v", a.Depth(), a.Position().Y)
	}
}

func TestNegativeDeltaIsIgnored(t *testing.T) {
	a := newTestAgent(t, 4, Point{X: 300, Y: 450})
	a.Tick(-500)
	if a.IdleElapsed() != 0 {
		t.Fatalf("negative delta changed idle elapsed: %v", a.IdleElapsed())
	}
}

func TestNewAgentPreconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewAgent("tiny", Point{}, Rect{Width: 100, Height: 500}, DefaultParams(), rng)
	if !errors.Is(err, ErrAreaTooSmall) {
		t.Fatalf("expected ErrAreaTooSmall, got %v", err)
	}

	params := DefaultParams()
	params.WalkSpeed = 0
	_, err = NewAgent("still", Point{}, floor, params, rng)
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}

	params = DefaultParams()
	params.Idle = Range{Min: 4000, Max: 2000}
	_, err = NewAgent("inverted", Point{}, floor, params, rng)
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for inverted range, got %v", err)
	}

	_, err = NewAgent("no-rng", Point{}, floor, DefaultParams(), nil)
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for nil rng, got %v", err)
	}
}

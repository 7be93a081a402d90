// Package motion simulates the café's wandering characters.
//
// Each Agent is a two-state machine (Idle, Walking) advanced by Tick with the
// elapsed milliseconds since the previous frame. Movement is a straight-line
// steer toward a destination sampled inside the agent's confined area, so
// speed is independent of the frame rate.
package motion

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrAreaTooSmall is returned when the confined area cannot hold the inset on both sides.
	ErrAreaTooSmall = errors.New("confined area smaller than twice the inset")
	// ErrInvalidParams is returned for non-positive speeds, negative thresholds or inverted ranges.
	ErrInvalidParams = errors.New("invalid motion parameters")
)

// State is the motion state of an agent.
type State int

const (
	Idle State = iota
	Walking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Walking:
		return "walking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Point is a position on the continuous floor plane.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Shrink returns the rectangle with d removed from every side.
func (r Rect) Shrink(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Range is an inclusive interval of milliseconds.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Params tunes an agent. DefaultParams matches the café floor.
type Params struct {
	WalkSpeed        float64 // units per second
	ArrivalThreshold float64
	Inset            float64
	FirstIdle        Range
	Idle             Range
	Bob              BobParams
}

// DefaultParams returns the tuning used by the café characters.
func DefaultParams() Params {
	return Params{
		WalkSpeed:        50,
		ArrivalThreshold: 5,
		Inset:            60,
		FirstIdle:        Range{Min: 1000, Max: 3000},
		Idle:             Range{Min: 2000, Max: 4000},
		Bob:              DefaultBob(),
	}
}

// Validate checks the parameters independently of any area.
func (p Params) Validate() error {
	switch {
	case p.WalkSpeed <= 0:
		return fmt.Errorf("%w: walk speed %v", ErrInvalidParams, p.WalkSpeed)
	case p.ArrivalThreshold < 0:
		return fmt.Errorf("%w: arrival threshold %v", ErrInvalidParams, p.ArrivalThreshold)
	case p.Inset < 0:
		return fmt.Errorf("%w: inset %v", ErrInvalidParams, p.Inset)
	case p.FirstIdle.Min < 0 || p.FirstIdle.Max < p.FirstIdle.Min:
		return fmt.Errorf("%w: first idle range %v", ErrInvalidParams, p.FirstIdle)
	case p.Idle.Min < 0 || p.Idle.Max < p.Idle.Min:
		return fmt.Errorf("%w: idle range %v", ErrInvalidParams, p.Idle)
	}
	return nil
}

// CheckArea reports whether area can hold destinations for the given inset.
func CheckArea(area Rect, inset float64) error {
	if area.Width < 2*inset || area.Height < 2*inset {
		return fmt.Errorf("%w: %vx%v with inset %v", ErrAreaTooSmall, area.Width, area.Height, inset)
	}
	return nil
}

// Agent is one autonomous character. The zero value is not usable; call NewAgent.
type Agent struct {
	Name string

	pos        Point
	facingLeft bool
	state      State
	target     *Point

	idleElapsed  float64
	idleDuration float64
	walkElapsed  float64

	area   Rect
	params Params
	rng    *rand.Rand
}

// NewAgent places an idle agent at pos. The first idle duration is drawn from
// params.FirstIdle so characters start moving soon after they appear.
func NewAgent(name string, pos Point, area Rect, params Params, rng *rand.Rand) (*Agent, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := CheckArea(area, params.Inset); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParams)
	}
	return &Agent{
		Name:         name,
		pos:          pos,
		state:        Idle,
		area:         area,
		params:       params,
		rng:          rng,
		idleDuration: params.FirstIdle.sample(rng),
	}, nil
}

// Tick advances the agent by deltaMs milliseconds. Negative deltas count as zero.
func (a *Agent) Tick(deltaMs float64) {
	if deltaMs < 0 {
		deltaMs = 0
	}

	switch a.state {
	case Idle:
		a.idleElapsed += deltaMs
		if a.idleElapsed >= a.idleDuration {
			a.pickDestination()
		}
	case Walking:
		a.walk(deltaMs)
	}
}

func (a *Agent) pickDestination() {
	inner := a.area.Shrink(a.params.Inset)
	a.target = &Point{
		X: inner.X + a.rng.Float64()*inner.Width,
		Y: inner.Y + a.rng.Float64()*inner.Height,
	}
	a.state = Walking
	a.walkElapsed = 0
}

func (a *Agent) walk(deltaMs float64) {
	dx := a.target.X - a.pos.X
	dy := a.target.Y - a.pos.Y
	distance := math.Hypot(dx, dy)

	if distance < a.params.ArrivalThreshold {
		a.target = nil
		a.state = Idle
		a.idleElapsed = 0
		a.idleDuration = a.params.Idle.sample(a.rng)
		return
	}

	// never step past the target; overshoot would leave the confined area
	step := math.Min(a.params.WalkSpeed*deltaMs/1000, distance)
	a.pos.X += dx / distance * step
	a.pos.Y += dy / distance * step
	a.facingLeft = dx < 0
	a.walkElapsed += deltaMs
}

func (a *Agent) Position() Point { return a.pos }
func (a *Agent) FacingLeft() bool { return a.facingLeft }
func (a *Agent) State() State { return a.state }
func (a *Agent) Area() Rect { return a.area }

// IdleElapsed and IdleDuration are in milliseconds.
func (a *Agent) IdleElapsed() float64 { return a.idleElapsed }
func (a *Agent) IdleDuration() float64 { return a.idleDuration }

// WalkElapsed is the animation phase accumulator, in milliseconds.
func (a *Agent) WalkElapsed() float64 { return a.walkElapsed }

// Target returns the current destination, if the agent is walking.
func (a *Agent) Target() (Point, bool) {
	if a.target == nil {
		return Point{}, false
	}
	return *a.target, true
}

// Depth is the render order: agents lower on the floor draw in front.
func (a *Agent) Depth() float64 { return a.pos.Y }

// Pose is the cosmetic bob for the current frame. Idle agents stand still.
func (a *Agent) Pose() Pose {
	if a.state != Walking {
		return Pose{Squash: 1, Stretch: 1}
	}
	return a.params.Bob.At(a.walkElapsed)
}

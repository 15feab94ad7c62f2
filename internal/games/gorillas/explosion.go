package gorillas

import (
	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Default explosion animation: radius grows by ExpansionRate for Steps ticks.
const (
	DefaultExpansionRate  = 5.0
	DefaultExplosionSteps = 10
)

// ExplosionPhase is derived from the explosion step counter.
type ExplosionPhase int

const (
	ExplosionExpanding ExplosionPhase = iota
	ExplosionBurnout
	ExplosionContracting
	ExplosionFinished
)

// String returns a human-readable name for the phase.
func (p ExplosionPhase) String() string {
	switch p {
	case ExplosionExpanding:
		return "expanding"
	case ExplosionBurnout:
		return "burnout"
	case ExplosionContracting:
		return "contracting"
	case ExplosionFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Outline colors while expanding, indexed by step and clamped to the last entry.
var explosionPalette = []core.Color{
	core.ColorBrightWhite,
	core.ColorBrightYellow,
	core.ColorBrightYellow,
	core.ColorYellow,
	core.ColorOrange,
	core.ColorOrange,
	core.ColorBrightRed,
	core.ColorBrightRed,
	core.ColorRed,
	core.ColorRed,
}

// Explosion is the fireball at an impact point. After it finishes it stays
// around as a crater: a round hole bananas fly through.
type Explosion struct {
	x, y   float64
	radius float64
	rate   float64
	steps  int
	step   int
	hit    Target
}

// NewExplosion starts an explosion at (x, y) caused by hitting target.
func NewExplosion(x, y, rate float64, steps int, target Target) *Explosion {
	return &Explosion{
		x:      x,
		y:      y,
		radius: rate,
		rate:   rate,
		steps:  max(1, steps),
		hit:    target,
	}
}

// Update advances the animation by one step. The step counter saturates
// once the explosion is finished.
func (e *Explosion) Update() {
	if e.step >= 2*e.steps {
		return
	}
	e.step++
	if e.step < e.steps {
		e.radius += e.rate
	}
}

// Step returns the step counter.
func (e *Explosion) Step() int {
	return e.step
}

// Steps returns the length of the expanding phase.
func (e *Explosion) Steps() int {
	return e.steps
}

// Radius returns the crater radius, which stops growing at rate*steps.
func (e *Explosion) Radius() float64 {
	return e.radius
}

// Hit returns what the banana hit.
func (e *Explosion) Hit() Target {
	return e.hit
}

// Phase returns the animation phase for the current step.
func (e *Explosion) Phase() ExplosionPhase {
	switch {
	case e.step < e.steps:
		return ExplosionExpanding
	case e.step == e.steps:
		return ExplosionBurnout
	case e.step < 2*e.steps:
		return ExplosionContracting
	default:
		return ExplosionFinished
	}
}

// IsExploding reports whether the animation is still running.
func (e *Explosion) IsExploding() bool {
	return e.step < 2*e.steps
}

// DisplayRadius is the radius of the fireball as drawn. It shrinks back to
// zero while contracting.
func (e *Explosion) DisplayRadius() float64 {
	switch e.Phase() {
	case ExplosionContracting:
		scale := 1 - float64(e.step-e.steps)/float64(e.steps)
		return e.radius * scale
	case ExplosionFinished:
		return 0
	default:
		return e.radius
	}
}

// OutlineColor returns the palette color for the current step.
func (e *Explosion) OutlineColor() core.Color {
	return explosionPalette[core.Clamp(e.step, 0, len(explosionPalette)-1)]
}

// Contains reports whether (x, y) lies within the radius, edge included.
func (e *Explosion) Contains(x, y float64) bool {
	return core.Dist(e.x, e.y, x, y) <= e.radius
}

// Position returns the center.
func (e *Explosion) Position() (float64, float64) {
	return e.x, e.y
}

// Visible reports whether the fireball is still drawn. A finished
// explosion is only a hole in the skyline.
func (e *Explosion) Visible() bool {
	return e.IsExploding()
}

// Draw renders the fireball, or the hole once finished.
func (e *Explosion) Draw(c Canvas) {
	switch e.Phase() {
	case ExplosionExpanding:
		c.FillCircle(e.x, e.y, e.radius, core.ColorBrightRed)
		c.StrokeCircle(e.x, e.y, e.radius, e.OutlineColor())
	case ExplosionBurnout:
		c.FillCircle(e.x, e.y, e.radius, core.ColorBrown)
	case ExplosionContracting:
		c.FillCircle(e.x, e.y, e.radius, core.ColorDefault)
		c.FillCircle(e.x, e.y, e.DisplayRadius(), core.ColorBrown)
	case ExplosionFinished:
		c.FillCircle(e.x, e.y, e.radius, core.ColorDefault)
	}
}

package gorillas

import (
	"errors"
	"math"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Direction is the horizontal sense of a throw.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// ErrInvalidDirection is returned by SetDirection for anything but Left or Right.
var ErrInvalidDirection = errors.New("gorillas: direction must be Left (-1) or Right (+1)")

// Default throw settings and control limits.
const (
	DefaultSpeed = 20
	DefaultAngle = 45
	MaxSpeed     = 99
	MinAngle     = -45
	MaxAngle     = 90
)

// ThrowLimits bounds the values a player can dial in.
type ThrowLimits struct {
	MaxSpeed int
	MinAngle int
	MaxAngle int
}

// DefaultLimits returns the classic limits: speed 0-99, angle -45..90 degrees.
func DefaultLimits() ThrowLimits {
	return ThrowLimits{MaxSpeed: MaxSpeed, MinAngle: MinAngle, MaxAngle: MaxAngle}
}

var bananaFrames = [][]string{{"("}, {"^"}, {")"}, {"v"}}

// Banana is the projectile. Each gorilla owns one and reuses it every turn,
// so the dialed speed and angle carry over between throws.
type Banana struct {
	sprite
	startX, startY float64
	vx, vy         float64
	speed          int
	angle          int
	direction      Direction
	moving         bool
	spin           int
	size           float64
	gravity        float64
	world          World
	limits         ThrowLimits
}

// NewBanana creates a resting, hidden banana with default speed and angle.
func NewBanana(world World, gravity, size float64, limits ThrowLimits) *Banana {
	return &Banana{
		speed:     DefaultSpeed,
		angle:     DefaultAngle,
		direction: Right,
		size:      size,
		gravity:   gravity,
		world:     world,
		limits:    limits,
	}
}

// Speed returns the dialed throw speed.
func (b *Banana) Speed() int {
	return b.speed
}

// Angle returns the dialed throw angle in degrees above the horizon.
func (b *Banana) Angle() int {
	return b.angle
}

// Direction returns the throw direction.
func (b *Banana) Direction() Direction {
	return b.direction
}

// Size returns the sprite size, which is also the hit sampling offset.
func (b *Banana) Size() float64 {
	return b.size
}

// Velocity returns the current velocity; vy is positive upward.
func (b *Banana) Velocity() (vx, vy float64) {
	return b.vx, b.vy
}

// IsMoving reports whether the banana is in flight.
func (b *Banana) IsMoving() bool {
	return b.moving
}

// Spin returns the rotation frame.
func (b *Banana) Spin() int {
	return b.spin
}

// SetSpeed sets the throw speed. Values outside [0, max speed] are ignored
// and the previous value is kept.
func (b *Banana) SetSpeed(v int) bool {
	if v < 0 || v > b.limits.MaxSpeed {
		return false
	}
	b.speed = v
	return true
}

// SetAngle sets the throw angle. Values outside the angle limits are ignored
// and the previous value is kept.
func (b *Banana) SetAngle(deg int) bool {
	if deg < b.limits.MinAngle || deg > b.limits.MaxAngle {
		return false
	}
	b.angle = deg
	return true
}

// AdjustSpeed changes the speed by delta if the result is in range.
func (b *Banana) AdjustSpeed(delta int) bool {
	return b.SetSpeed(b.speed + delta)
}

// AdjustAngle changes the angle by delta if the result is in range.
func (b *Banana) AdjustAngle(delta int) bool {
	return b.SetAngle(b.angle + delta)
}

// SetDirection sets the throw direction.
func (b *Banana) SetDirection(d Direction) error {
	if d != Left && d != Right {
		return ErrInvalidDirection
	}
	b.direction = d
	return nil
}

// SetStart sets the launch point. A resting banana moves there at once.
func (b *Banana) SetStart(x, y float64) {
	b.startX, b.startY = x, y
	if !b.moving {
		b.MoveTo(x, y)
	}
}

// Start launches the banana from its start point.
func (b *Banana) Start() {
	rad := float64(b.angle) * math.Pi / 180
	b.vx = float64(b.speed) * math.Cos(rad) * float64(b.direction)
	b.vy = float64(b.speed) * math.Sin(rad)
	b.spin = 0
	b.moving = true
	b.Show()
}

// Stop freezes the banana where it is.
func (b *Banana) Stop() {
	b.moving = false
}

// Reset stops the banana and puts it back at the start point at rest.
func (b *Banana) Reset() {
	b.Stop()
	b.MoveTo(b.startX, b.startY)
	b.vx, b.vy = 0, 0
	b.spin = 0
}

// Update advances the flight by one tick. The banana stops and hides once it
// falls below the street or leaves the world sideways; flying above the top
// edge is allowed.
func (b *Banana) Update() {
	if !b.moving {
		return
	}
	b.x += b.vx
	b.y -= b.vy
	b.vy -= b.gravity
	b.spin = (b.spin + 1) % len(bananaFrames)

	if b.y > b.world.Height || b.x < 0 || b.x > b.world.Width {
		b.Stop()
		b.Hide()
	}
}

// Hits reports whether the banana touches t. Only a banana in flight hits.
func (b *Banana) Hits(t Target) bool {
	return b.HitsWhere(t, nil)
}

// HitsWhere is Hits with sample points for which skip is true ignored.
func (b *Banana) HitsWhere(t Target, skip func(x, y float64) bool) bool {
	if !b.moving {
		return false
	}
	for _, p := range b.samplePoints() {
		if skip != nil && skip(p[0], p[1]) {
			continue
		}
		if t.Contains(p[0], p[1]) {
			return true
		}
	}
	return false
}

// samplePoints returns the center and four points one sprite size away.
func (b *Banana) samplePoints() [5][2]float64 {
	r := b.size
	return [5][2]float64{
		{b.x, b.y},
		{b.x + r, b.y},
		{b.x - r, b.y},
		{b.x, b.y - r},
		{b.x, b.y + r},
	}
}

// Contains reports whether (x, y) is on the visible banana.
func (b *Banana) Contains(x, y float64) bool {
	return b.visible && core.Dist(b.x, b.y, x, y) <= b.size/2
}

// Draw renders the banana with its current spin frame.
func (b *Banana) Draw(c Canvas) {
	if !b.visible {
		return
	}
	c.Sprite(b.x, b.y, bananaFrames[b.spin], core.ColorBrightYellow)
}

func (b *Banana) clone() *Banana {
	cp := *b
	return &cp
}

package gorillas

import (
	"math"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Pose is the gorilla's arm position.
type Pose int

const (
	PoseArmsDown Pose = iota
	PoseLeftArmUp
	PoseRightArmUp
)

var gorillaArt = map[Pose][]string{
	PoseArmsDown:   {" o ", "/█\\"},
	PoseLeftArmUp:  {"\\o ", " █\\"},
	PoseRightArmUp: {" o/", "/█ "},
}

// Gorilla is a player standing on a roof. It owns the banana it throws.
type Gorilla struct {
	sprite
	name         string
	width        float64
	height       float64
	banana       *Banana
	launchHeight float64
	pose         Pose
	poseTicks    int
	throwTicks   int
}

// NewGorilla creates a hidden gorilla holding banana. The banana launches
// from launchHeight above the head; the raised arm stays up for throwTicks.
func NewGorilla(name string, width, height float64, banana *Banana, launchHeight float64, throwTicks int) *Gorilla {
	return &Gorilla{
		name:         name,
		width:        width,
		height:       height,
		banana:       banana,
		launchHeight: launchHeight,
		throwTicks:   throwTicks,
	}
}

// Name returns the player name.
func (g *Gorilla) Name() string {
	return g.name
}

// SetName renames the player.
func (g *Gorilla) SetName(name string) {
	g.name = name
}

// Banana returns the gorilla's banana.
func (g *Gorilla) Banana() *Banana {
	return g.banana
}

// Pose returns the current arm position.
func (g *Gorilla) Pose() Pose {
	return g.pose
}

// Width returns the sprite width.
func (g *Gorilla) Width() float64 {
	return g.width
}

// Height returns the sprite height.
func (g *Gorilla) Height() float64 {
	return g.height
}

// MoveTo places the gorilla center and moves the banana launch point with it.
func (g *Gorilla) MoveTo(x, y float64) {
	g.sprite.MoveTo(x, y)
	g.banana.SetStart(x, y-g.height/2-g.launchHeight)
}

// StandOn puts the gorilla in the middle of a roof.
func (g *Gorilla) StandOn(b *Building) {
	g.MoveTo(b.Left()+b.Width()/2, b.Top()-g.height/2)
}

// Throw raises the throwing arm on the side the banana flies to.
func (g *Gorilla) Throw() {
	g.pose = PoseRightArmUp
	if g.banana.Direction() == Left {
		g.pose = PoseLeftArmUp
	}
	g.poseTicks = g.throwTicks
}

// Update lowers the arm after a throw.
func (g *Gorilla) Update() {
	if g.poseTicks == 0 {
		return
	}
	g.poseTicks--
	if g.poseTicks == 0 {
		g.pose = PoseArmsDown
	}
}

// Contains is the bounding box with its four corners cut off: a point more
// than a quarter of the size away on both axes misses.
func (g *Gorilla) Contains(x, y float64) bool {
	dx := math.Abs(x - g.x)
	dy := math.Abs(y - g.y)
	if dx > g.width/2 || dy > g.height/2 {
		return false
	}
	if dx > g.width/4 && dy > g.height/4 {
		return false
	}
	return true
}

// Draw renders the gorilla in its current pose.
func (g *Gorilla) Draw(c Canvas) {
	if !g.visible {
		return
	}
	c.Sprite(g.x, g.y, gorillaArt[g.pose], core.ColorBrown)
}

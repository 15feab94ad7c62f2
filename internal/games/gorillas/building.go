package gorillas

import (
	"math"
	"math/rand"
	"strings"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// WindowLayout is the window grid geometry shared by all buildings.
type WindowLayout struct {
	RoomWidth   float64 `json:"room_width"`
	FloorHeight float64 `json:"floor_height"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// Window is one window of a building.
type Window struct {
	X, Y, W, H float64
	Lit        bool
}

// Building is a rectangle standing on the street with a grid of windows.
// Its geometry never changes; only windows go dark over time.
type Building struct {
	left     float64
	baseline float64
	width    float64
	height   float64
	color    core.Color
	windows  []Window
	lit      int
	dimRate  float64
	rng      *rand.Rand
}

// NewBuilding creates a building with all windows dark.
func NewBuilding(left, baseline, width, height float64, color core.Color, layout WindowLayout) *Building {
	b := &Building{
		left:     left,
		baseline: baseline,
		width:    width,
		height:   height,
		color:    color,
	}
	b.windows = windowGrid(b, layout)
	return b
}

// windowGrid lays windows out from the roof down, so any slack is left at
// street level.
func windowGrid(b *Building, layout WindowLayout) []Window {
	if layout.FloorHeight <= 0 || layout.RoomWidth <= 0 {
		return nil
	}
	floors := int(math.Floor(b.height / layout.FloorHeight))
	rooms := int(math.Floor((b.width - layout.Width/2) / layout.RoomWidth))
	if floors <= 0 || rooms <= 0 {
		return nil
	}

	top := b.Top()
	windows := make([]Window, 0, floors*rooms)
	for row := 0; row < floors; row++ {
		for col := 0; col < rooms; col++ {
			windows = append(windows, Window{
				X: b.left + layout.Width + float64(col)*layout.RoomWidth,
				Y: top + layout.Height/2 + float64(row)*layout.FloorHeight,
				W: layout.Width,
				H: layout.Height,
			})
		}
	}
	return windows
}

// lightWindows switches each window on with probability p.
func (b *Building) lightWindows(rng *rand.Rand, p float64) {
	b.lit = 0
	for i := range b.windows {
		b.windows[i].Lit = rng.Float64() < p
		if b.windows[i].Lit {
			b.lit++
		}
	}
}

// Left returns the x of the left wall.
func (b *Building) Left() float64 {
	return b.left
}

// Right returns the x of the right wall.
func (b *Building) Right() float64 {
	return b.left + b.width
}

// Top returns the roof y.
func (b *Building) Top() float64 {
	return b.baseline - b.height
}

// Baseline returns the street y.
func (b *Building) Baseline() float64 {
	return b.baseline
}

// Width returns the building width.
func (b *Building) Width() float64 {
	return b.width
}

// Height returns the building height.
func (b *Building) Height() float64 {
	return b.height
}

// Color returns the wall color.
func (b *Building) Color() core.Color {
	return b.color
}

// Windows returns the window grid.
func (b *Building) Windows() []Window {
	return b.windows
}

// LitWindows returns how many windows are still lit.
func (b *Building) LitWindows() int {
	return b.lit
}

// Contains reports whether (x, y) is strictly inside the walls.
func (b *Building) Contains(x, y float64) bool {
	return b.left < x && x < b.left+b.width && b.Top() < y && y < b.baseline
}

// Position returns the middle of the roof.
func (b *Building) Position() (float64, float64) {
	return b.left + b.width/2, b.Top()
}

// Visible is always true; buildings are never hidden.
func (b *Building) Visible() bool {
	return true
}

// Update may switch off one lit window. The chance is proportional to the
// share of windows still lit, so the city fades slowly and never all at once.
func (b *Building) Update() {
	if b.rng == nil || b.lit == 0 || len(b.windows) == 0 {
		return
	}
	p := b.dimRate * float64(b.lit) / float64(len(b.windows))
	if b.rng.Float64() >= p {
		return
	}
	k := b.rng.Intn(b.lit)
	for i := range b.windows {
		if !b.windows[i].Lit {
			continue
		}
		if k == 0 {
			b.windows[i].Lit = false
			b.lit--
			return
		}
		k--
	}
}

// Draw renders the walls and windows.
func (b *Building) Draw(c Canvas) {
	c.FillRect(b.left, b.Top(), b.Right(), b.baseline, b.color)
	for _, w := range b.windows {
		col := core.ColorDarkGray
		if w.Lit {
			col = core.ColorBrightYellow
		}
		c.FillRect(w.X, w.Y, w.X+w.W, w.Y+w.H, col)
	}
}

// litMask encodes window state as a string of '1' and '0'.
func (b *Building) litMask() string {
	var sb strings.Builder
	sb.Grow(len(b.windows))
	for _, w := range b.windows {
		if w.Lit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// setLitMask restores window state from litMask output.
func (b *Building) setLitMask(mask string) {
	b.lit = 0
	for i := range b.windows {
		b.windows[i].Lit = i < len(mask) && mask[i] == '1'
		if b.windows[i].Lit {
			b.lit++
		}
	}
}

// SkylineSpec controls skyline generation.
type SkylineSpec struct {
	Layout           WindowLayout
	MinRooms         int
	MaxRooms         int
	MinHeight        float64 // fraction of world height
	MaxHeight        float64
	LightProbability float64
	DimRate          float64
	Colors           []core.Color
}

// DefaultSkyline returns the classic skyline: 5-9 rooms of 16px, heights
// between 20% and 70% of the world.
func DefaultSkyline() SkylineSpec {
	return SkylineSpec{
		Layout:           WindowLayout{RoomWidth: 16, FloorHeight: 32, Width: 8, Height: 16},
		MinRooms:         5,
		MaxRooms:         9,
		MinHeight:        0.2,
		MaxHeight:        0.7,
		LightProbability: 0.8,
		DimRate:          0.02,
		Colors:           []core.Color{core.ColorRed, core.ColorCyan, core.ColorGray},
	}
}

// GenerateSkyline fills the world width with buildings from left to right.
// The last building is stretched or cut to end exactly at the right edge,
// and no building repeats the color of its left neighbor. There are always
// at least two buildings.
func GenerateSkyline(rng *rand.Rand, world World, sky SkylineSpec) []*Building {
	if world.Width <= 0 || len(sky.Colors) == 0 {
		return nil
	}
	roomW := sky.Layout.RoomWidth
	minW := float64(sky.MinRooms) * roomW

	var buildings []*Building
	prev := -1
	for x := 0.0; x < world.Width; {
		rooms := sky.MinRooms + rng.Intn(max(1, sky.MaxRooms-sky.MinRooms+1))
		width := float64(rooms) * roomW
		if width <= 0 || x+width > world.Width || world.Width-(x+width) < minW {
			width = world.Width - x
		}
		if x == 0 && width >= world.Width {
			// Each gorilla needs a roof of its own.
			width = world.Width / 2
		}

		frac := sky.MinHeight + rng.Float64()*(sky.MaxHeight-sky.MinHeight)
		idx := pickColor(rng, len(sky.Colors), prev)
		prev = idx

		b := NewBuilding(x, world.Height, width, frac*world.Height, sky.Colors[idx], sky.Layout)
		b.lightWindows(rng, sky.LightProbability)
		b.dimRate = sky.DimRate
		b.rng = rng
		buildings = append(buildings, b)
		x += width
	}
	return buildings
}

// pickColor picks a palette index uniformly, excluding prev when possible.
func pickColor(rng *rand.Rand, n, prev int) int {
	if prev < 0 || n < 2 {
		return rng.Intn(n)
	}
	idx := rng.Intn(n - 1)
	if idx >= prev {
		idx++
	}
	return idx
}

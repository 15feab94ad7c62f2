package gorillas

import (
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Canvas is the drawing surface elements render onto, in world pixels.
// core.ColorDefault paints sky.
type Canvas interface {
	FillRect(x0, y0, x1, y1 float64, c core.Color)
	FillCircle(cx, cy, r float64, c core.Color)
	StrokeCircle(cx, cy, r float64, c core.Color)
	Sprite(cx, cy float64, art []string, c core.Color)
}

const (
	solidRune = '█'
	skyRune   = ' '
)

// ScreenCanvas draws the world onto a rectangle of terminal cells.
// A cell is painted when its center lies inside a shape; shapes smaller
// than a cell paint the cell under their center.
type ScreenCanvas struct {
	dst    *core.Screen
	area   core.Rect
	sx, sy float64 // world pixels per cell
}

// NewScreenCanvas maps world onto area of dst.
func NewScreenCanvas(dst *core.Screen, area core.Rect, world World) *ScreenCanvas {
	c := &ScreenCanvas{dst: dst, area: area, sx: 1, sy: 1}
	if area.W > 0 && world.Width > 0 {
		c.sx = world.Width / float64(area.W)
	}
	if area.H > 0 && world.Height > 0 {
		c.sy = world.Height / float64(area.H)
	}
	return c
}

// CellAt returns the screen cell showing world point (x, y).
func (c *ScreenCanvas) CellAt(x, y float64) (col, row int) {
	return c.area.X + int(math.Floor(x/c.sx)), c.area.Y + int(math.Floor(y/c.sy))
}

// cellCenter returns the world point at the center of a screen cell.
func (c *ScreenCanvas) cellCenter(col, row int) (float64, float64) {
	return (float64(col-c.area.X) + 0.5) * c.sx, (float64(row-c.area.Y) + 0.5) * c.sy
}

func (c *ScreenCanvas) paint(col, row int, color core.Color) {
	if !c.area.Contains(col, row) {
		return
	}
	r := solidRune
	if color == core.ColorDefault {
		r = skyRune
	}
	c.dst.SetColored(col, row, r, color)
}

// span returns the cells covering world box [x0,x1]x[y0,y1].
func (c *ScreenCanvas) span(x0, y0, x1, y1 float64) (c0, r0, c1, r1 int) {
	c0, r0 = c.CellAt(x0, y0)
	c1, r1 = c.CellAt(x1, y1)
	return
}

// FillRect paints cells whose center is inside [x0,x1)x[y0,y1).
func (c *ScreenCanvas) FillRect(x0, y0, x1, y1 float64, color core.Color) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	painted := false
	c0, r0, c1, r1 := c.span(x0, y0, x1, y1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := c.cellCenter(col, row)
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				c.paint(col, row, color)
				painted = true
			}
		}
	}
	if !painted {
		col, row := c.CellAt((x0+x1)/2, (y0+y1)/2)
		c.paint(col, row, color)
	}
}

// FillCircle paints cells whose center is within r of (cx, cy).
func (c *ScreenCanvas) FillCircle(cx, cy, r float64, color core.Color) {
	if r <= 0 {
		return
	}
	painted := false
	c0, r0, c1, r1 := c.span(cx-r, cy-r, cx+r, cy+r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := c.cellCenter(col, row)
			if core.Dist(cx, cy, x, y) <= r {
				c.paint(col, row, color)
				painted = true
			}
		}
	}
	if !painted {
		col, row := c.CellAt(cx, cy)
		c.paint(col, row, color)
	}
}

// StrokeCircle paints cells whose center is within half a cell of the ring.
func (c *ScreenCanvas) StrokeCircle(cx, cy, r float64, color core.Color) {
	if r <= 0 {
		return
	}
	tol := math.Max(c.sx, c.sy) / 2
	c0, r0, c1, r1 := c.span(cx-r-tol, cy-r-tol, cx+r+tol, cy+r+tol)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := c.cellCenter(col, row)
			if math.Abs(core.Dist(cx, cy, x, y)-r) <= tol {
				c.paint(col, row, color)
			}
		}
	}
}

// Sprite draws ASCII art centered on (cx, cy). Spaces are transparent.
func (c *ScreenCanvas) Sprite(cx, cy float64, art []string, color core.Color) {
	col, row := c.CellAt(cx, cy)
	top := row - len(art)/2
	for i, line := range art {
		left := col - utf8.RuneCountInString(line)/2
		j := 0
		for _, r := range line {
			if r != ' ' && c.area.Contains(left+j, top+i) {
				c.dst.SetColored(left+j, top+i, r, color)
			}
			j++
		}
	}
}

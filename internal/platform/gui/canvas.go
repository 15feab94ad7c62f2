package gui

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Sky is the background of the world.
var Sky = color.RGBA{R: 0, G: 0, B: 170, A: 255}

var palette = map[core.Color]color.RGBA{
	core.ColorRed:           {R: 170, G: 0, B: 0, A: 255},
	core.ColorGreen:         {R: 0, G: 170, B: 0, A: 255},
	core.ColorYellow:        {R: 170, G: 170, B: 0, A: 255},
	core.ColorBlue:          {R: 0, G: 0, B: 255, A: 255},
	core.ColorMagenta:       {R: 170, G: 0, B: 170, A: 255},
	core.ColorCyan:          {R: 0, G: 170, B: 170, A: 255},
	core.ColorWhite:         {R: 192, G: 192, B: 192, A: 255},
	core.ColorBrightRed:     {R: 255, G: 85, B: 85, A: 255},
	core.ColorBrightGreen:   {R: 85, G: 255, B: 85, A: 255},
	core.ColorBrightYellow:  {R: 255, G: 255, B: 85, A: 255},
	core.ColorBrightBlue:    {R: 85, G: 85, B: 255, A: 255},
	core.ColorBrightMagenta: {R: 255, G: 85, B: 255, A: 255},
	core.ColorBrightCyan:    {R: 85, G: 255, B: 255, A: 255},
	core.ColorBrightWhite:   {R: 255, G: 255, B: 255, A: 255},
	core.ColorOrange:        {R: 255, G: 140, B: 0, A: 255},
	core.ColorGray:          {R: 128, G: 128, B: 128, A: 255},
	core.ColorDarkGray:      {R: 68, G: 68, B: 68, A: 255},
	core.ColorBrown:         {R: 170, G: 85, B: 0, A: 255},
}

// RGBA returns the window color of a terminal color. ColorDefault is sky.
func RGBA(c core.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return Sky
}

// ImageCanvas draws the world onto an image, one world pixel per image
// pixel. Sprites are drawn one block per character cell.
type ImageCanvas struct {
	dst          *ebiten.Image
	cellW, cellH float64
}

// NewImageCanvas returns a canvas drawing onto dst.
func NewImageCanvas(dst *ebiten.Image, cellW, cellH float64) *ImageCanvas {
	return &ImageCanvas{dst: dst, cellW: cellW, cellH: cellH}
}

// FillRect fills [x0,x1)x[y0,y1).
func (c *ImageCanvas) FillRect(x0, y0, x1, y1 float64, col core.Color) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	vector.DrawFilledRect(c.dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), RGBA(col), false)
}

// FillCircle fills a disc.
func (c *ImageCanvas) FillCircle(cx, cy, r float64, col core.Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), RGBA(col), true)
}

// StrokeCircle draws a ring.
func (c *ImageCanvas) StrokeCircle(cx, cy, r float64, col core.Color) {
	if r <= 0 {
		return
	}
	vector.StrokeCircle(c.dst, float32(cx), float32(cy), float32(r), 2, RGBA(col), true)
}

// Sprite draws art centered on (cx, cy). Spaces are transparent.
func (c *ImageCanvas) Sprite(cx, cy float64, art []string, col core.Color) {
	top := cy - float64(len(art))*c.cellH/2
	for i, line := range art {
		left := cx - float64(utf8.RuneCountInString(line))*c.cellW/2
		j := 0
		for _, r := range line {
			if r != ' ' {
				x := left + float64(j)*c.cellW
				y := top + float64(i)*c.cellH
				c.FillRect(x, y, x+c.cellW, y+c.cellH, col)
			}
			j++
		}
	}
}

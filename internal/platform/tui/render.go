package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// skyColor is the background behind the skyline, the classic CGA blue.
const skyColor = lipgloss.Color("19")

// foregrounds maps core colors to terminal palette entries.
var foregrounds = map[core.Color]lipgloss.Color{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorDarkGray:      "238",
	core.ColorBrown:         "130",
}

var (
	hudStyles = buildStyles(false)
	skyStyles = buildStyles(true)
)

func buildStyles(sky bool) map[core.Color]lipgloss.Style {
	styles := make(map[core.Color]lipgloss.Style, len(foregrounds)+1)
	base := lipgloss.NewStyle()
	if sky {
		base = base.Background(skyColor)
	}
	styles[core.ColorDefault] = base
	for c, fg := range foregrounds {
		styles[c] = base.Foreground(fg)
	}
	return styles
}

// RenderScreen converts a frame to a styled string. The first and last
// rows hold the scoreboard and the status line; the rows between them
// are drawn over the sky. Adjacent cells of one color share an escape
// sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	last := s.Height() - 1
	for y, n := 0, s.Height(); y < n; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		styles := skyStyles
		if y == 0 || y == last {
			styles = hudStyles
		}
		renderRow(&sb, s, y, styles)
	}
	return sb.String()
}

func renderRow(sb *strings.Builder, s *core.Screen, y int, styles map[core.Color]lipgloss.Style) {
	var run strings.Builder
	for x := 0; x < s.Width(); {
		color := s.GetCell(x, y).Color
		run.Reset()
		for ; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if cell.Color != color {
				break
			}
			run.WriteRune(cell.Rune)
		}

		style, ok := styles[color]
		if !ok {
			style = styles[core.ColorDefault]
		}
		sb.WriteString(style.Render(run.String()))
	}
}

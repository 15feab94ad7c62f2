package gorillas

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

const controlsHint = "↑↓ angle  ←→ power  space throw  p pause"

// HUD is the text shown around the world. Frontends that draw their own
// status lines use it instead of Render.
type HUD struct {
	Names   [2]string
	Scores  [2]int
	Current int
	Speed   int
	Angle   int
	Message string
	Phase   Phase
	Paused  bool
	Round   int
	Local   core.PlayerID

	// Banner and Prompt are the centered box contents; empty when no box is shown.
	Banner string
	Prompt string
}

// HUD returns the current status text.
func (g *Game) HUD() HUD {
	h := HUD{
		Scores:  g.scores,
		Current: g.current,
		Message: g.message,
		Phase:   g.phase,
		Paused:  g.paused,
		Round:   g.round,
		Local:   g.local,
	}
	for i, p := range g.players {
		if p != nil {
			h.Names[i] = p.Name()
		}
	}
	if p := g.players[g.current]; p != nil {
		h.Speed, h.Angle = p.Banana().Speed(), p.Banana().Angle()
	}

	switch {
	case g.paused:
		h.Banner, h.Prompt = "PAUSED", "Press P to resume"
	case g.phase == PhaseGameOver:
		h.Banner = g.message
		h.Prompt = g.replayPrompt()
	}
	return h
}

func (g *Game) replayPrompt() string {
	score := fmt.Sprintf("%d - %d", g.scores[0], g.scores[1])
	switch {
	case g.mode == multiplayer.MatchModeOnlinePvP && g.matchOver:
		return score + "  |  Match over"
	case g.mode == multiplayer.MatchModeOnlinePvP:
		return score + "  |  Next round soon"
	case g.matchOver:
		return score + "  |  R: new match  B: menu  Q: quit"
	default:
		return score + "  |  Play again? R: yes  B: menu  Q: quit"
	}
}

// Draw renders the world back to front: skyline, craters, gorillas,
// bananas, explosion.
func (g *Game) Draw(c Canvas) {
	for _, b := range g.buildings {
		b.Draw(c)
	}
	for _, cr := range g.craters {
		cr.Draw(c)
	}
	for _, p := range g.players {
		if p == nil {
			continue
		}
		p.Draw(c)
		p.Banana().Draw(c)
	}
	if g.explosion != nil {
		g.explosion.Draw(c)
	}
}

// Render draws the game into a terminal screen: a status line, the world,
// and a message line.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	area := core.NewRect(0, 1, dst.Width(), max(0, dst.Height()-hudRows))
	g.Draw(NewScreenCanvas(dst, area, g.world))

	h := g.HUD()
	g.drawStatus(dst, h)

	if h.Banner != "" {
		drawCenteredMessage(dst, h.Banner, h.Prompt)
	}
}

func (g *Game) drawStatus(dst *core.Screen, h HUD) {
	left := fmt.Sprintf(" %s: %d", h.Names[0], h.Scores[0])
	right := fmt.Sprintf("%s: %d ", h.Names[1], h.Scores[1])
	leftColor, rightColor := core.ColorWhite, core.ColorWhite
	if h.Phase != PhaseGameOver {
		if h.Current == 0 {
			left = "▶" + left[1:]
			leftColor = core.ColorBrightYellow
		} else {
			right = right[:len(right)-1] + "◀"
			rightColor = core.ColorBrightYellow
		}
	}
	if h.Local != 0 {
		if h.Local == core.Player1 {
			left += " (you)"
		} else {
			right = "(you) " + right
		}
	}
	dst.DrawTextColor(0, 0, left, leftColor)
	dst.DrawTextRight(0, right, rightColor)

	aim := fmt.Sprintf("angle %d°  speed %d", h.Angle, h.Speed)
	if h.Round > 0 {
		aim = fmt.Sprintf("round %d  ", h.Round) + aim
	}
	dst.DrawTextColor((dst.Width()-utf8.RuneCountInString(aim))/2, 0, aim, core.ColorBrightCyan)

	bottom := dst.Height() - 1
	msg := h.Message
	if h.Local != 0 && h.Phase == PhaseIdle && core.PlayerAt(h.Current) != h.Local {
		msg = fmt.Sprintf("Waiting for %s...", h.Names[h.Current])
	}
	dst.DrawText(1, bottom, msg)
	if h.Phase == PhaseIdle && dst.Width()-utf8.RuneCountInString(msg) > utf8.RuneCountInString(controlsHint)+4 {
		dst.DrawTextRight(bottom, controlsHint+" ", core.ColorGray)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(utf8.RuneCountInString(title), utf8.RuneCountInString(subtitle)) + 4
	box := core.CenteredRect(dst.Width(), dst.Height(), boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	titleX := box.X + (boxW-utf8.RuneCountInString(title))/2
	dst.DrawTextColor(titleX, box.Y+1, title, core.ColorBrightYellow)

	subtitleX := box.X + (boxW-utf8.RuneCountInString(subtitle))/2
	dst.DrawText(subtitleX, box.Y+3, subtitle)
}

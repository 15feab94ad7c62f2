// Package gui runs gorillas in a desktop window with Ebitengine. The game
// is the same one the terminal plays; only drawing and input differ.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-gorillas/internal/audio"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/prefs"
	"github.com/vovakirdan/tui-gorillas/internal/storage"
)

// hudHeight is the height of the status bars above and below the world.
const hudHeight = 20

var (
	hudFace   = text.NewGoXFace(basicfont.Face7x13)
	hudText   = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	hudActive = color.RGBA{R: 255, G: 255, B: 85, A: 255}
	hudBack   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// Options are the optional side effects of a window game.
type Options struct {
	Store  *storage.Store
	Prefs  *prefs.Store
	Sound  *audio.SoundManager
	Logger *log.Logger
	Scale  float64 // window pixels per world pixel; 0 means 1
}

// Window adapts a game to ebiten.Game.
type Window struct {
	game    *gorillas.Game
	opts    Options
	logger  *log.Logger
	world   *ebiten.Image
	matchID string
}

// NewWindow creates a window for game and resets it for a world of
// the given terminal size.
func NewWindow(game *gorillas.Game, cfg core.RuntimeConfig, opts Options) *Window {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	game.Reset(cfg)

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Window{
		game:    game,
		opts:    opts,
		logger:  logger,
		matchID: fmt.Sprintf("window-%d", time.Now().UnixNano()),
	}
	w.loadPrefs()
	return w
}

// Update advances the game one tick.
func (w *Window) Update() error {
	in := readInput()
	if leaves(in, w.game.State()) {
		w.savePrefs()
		return ebiten.Termination
	}

	result := w.game.Step(in)
	w.handleEvents(result.Events)
	return nil
}

// leaves reports whether in closes the window. Back only works once the
// round is decided.
func leaves(in core.InputFrame, st core.GameState) bool {
	if in.Has(core.ActionQuit) {
		return true
	}
	return in.Has(core.ActionBack) && st.GameOver
}

// loadPrefs dials each human player's remembered throw.
func (w *Window) loadPrefs() {
	if w.opts.Prefs == nil {
		return
	}
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if !w.game.IsHuman(id) {
			continue
		}
		ts, found, err := w.opts.Prefs.Load(w.game.PlayerName(id))
		if err != nil {
			w.logger.Warn("could not load throw settings", "player", w.game.PlayerName(id), "err", err)
			continue
		}
		if found {
			w.game.SetThrowSettings(id, ts.Speed, ts.Angle)
		}
	}
}

// savePrefs remembers each human player's current throw.
func (w *Window) savePrefs() {
	if w.opts.Prefs == nil {
		return
	}
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if !w.game.IsHuman(id) {
			continue
		}
		speed, angle := w.game.ThrowSettings(id)
		if err := w.opts.Prefs.Save(w.game.PlayerName(id), prefs.ThrowSettings{Speed: speed, Angle: angle}); err != nil {
			w.logger.Warn("could not save throw settings", "player", w.game.PlayerName(id), "err", err)
		}
	}
}

func (w *Window) handleEvents(events []core.Event) {
	for _, e := range events {
		switch e.Kind {
		case core.EventThrow:
			if w.opts.Sound != nil {
				w.opts.Sound.PlayThrow()
			}
		case core.EventExplosion:
			if w.opts.Sound != nil {
				w.opts.Sound.PlayExplosion()
			}
		case core.EventRoundOver:
			w.logger.Info("round over", "winner", e.Winner, "throws", e.Throws, "match_over", e.MatchOver)
			w.savePrefs()
			if e.MatchOver && w.opts.Sound != nil {
				w.opts.Sound.PlayVictory()
			}
			if w.opts.Store == nil {
				continue
			}
			_, err := w.opts.Store.SaveRound(storage.RoundResult{
				MatchID:     w.matchID,
				GameID:      w.game.ID(),
				Mode:        w.game.Mode().String(),
				Winner:      e.Winner,
				Loser:       e.Loser,
				Throws:      e.Throws,
				WinnerTotal: e.WinnerTotal,
				MatchOver:   e.MatchOver,
			})
			if err != nil {
				w.logger.Warn("could not save round", "err", err)
			}
		}
	}
}

// Draw renders the status bars and the world.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(hudBack)

	world := w.game.World()
	ww, wh := int(world.Width), int(world.Height)
	if w.world == nil || w.world.Bounds().Dx() != ww || w.world.Bounds().Dy() != wh {
		w.world = ebiten.NewImage(ww, wh)
	}
	w.world.Fill(Sky)
	cfg := w.game.Config().Display
	w.game.Draw(NewImageCanvas(w.world, cfg.CellWidth, cfg.CellHeight))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, hudHeight)
	screen.DrawImage(w.world, op)

	w.drawHUD(screen, ww, wh)
}

func (w *Window) drawHUD(screen *ebiten.Image, width, height int) {
	h := w.game.HUD()

	for i := 0; i < 2; i++ {
		label := fmt.Sprintf("%s: %d", h.Names[i], h.Scores[i])
		clr := hudText
		if h.Phase != gorillas.PhaseGameOver && h.Current == i {
			clr = hudActive
		}
		x := 6.0
		if i == 1 {
			x = float64(width) - textWidth(label) - 6
		}
		drawText(screen, label, x, 4, clr)
	}

	status := fmt.Sprintf("Angle %d  Power %d  %s", h.Angle, h.Speed, h.Message)
	drawText(screen, status, 6, float64(hudHeight+height)+4, hudText)

	if h.Banner != "" {
		mid := float64(hudHeight + height/2)
		drawText(screen, h.Banner, (float64(width)-textWidth(h.Banner))/2, mid-14, hudActive)
		drawText(screen, h.Prompt, (float64(width)-textWidth(h.Prompt))/2, mid+4, hudText)
	}
}

func drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, hudFace, op)
}

func textWidth(s string) float64 {
	w, _ := text.Measure(s, hudFace, 0)
	return w
}

// Layout keeps the world at its native size; ebiten scales the window.
func (w *Window) Layout(_, _ int) (int, int) {
	world := w.game.World()
	return int(world.Width), int(world.Height) + 2*hudHeight
}

// Run opens a window and plays game until it is closed.
func Run(game *gorillas.Game, cfg core.RuntimeConfig, opts Options) error {
	win := NewWindow(game, cfg, opts)

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	width, height := win.Layout(0, 0)
	ebiten.SetWindowSize(int(float64(width)*scale), int(float64(height)*scale))
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(game.TickRate())

	if err := ebiten.RunGame(win); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

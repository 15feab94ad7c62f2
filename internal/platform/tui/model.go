package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-gorillas/internal/audio"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
	"github.com/vovakirdan/tui-gorillas/internal/prefs"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
	"github.com/vovakirdan/tui-gorillas/internal/storage"
)

// Services are the side effects of a local game. Every field is optional.
type Services struct {
	Store  *storage.Store
	Prefs  *prefs.Store
	Sound  *audio.SoundManager
	Logger *log.Logger
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// throwTuner is implemented by games whose players dial speed and angle.
type throwTuner interface {
	ThrowSettings(id core.PlayerID) (speed, angle int)
	SetThrowSettings(id core.PlayerID, speed, angle int)
	PlayerName(id core.PlayerID) string
	IsHuman(id core.PlayerID) bool
}

// namer is implemented by games with renamable players.
type namer interface {
	SetPlayerNames(p1, p2 string)
	PlayerName(id core.PlayerID) string
}

// moder is implemented by games that know their match mode.
type moder interface {
	Mode() multiplayer.MatchMode
}

// GameModel runs a local game: keyboard in, screen out, results to the
// scoreboard and throw settings to prefs.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	svc        Services
	logger     *log.Logger
	config     core.RuntimeConfig
	match      *multiplayer.Match
	names      [2]string
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	standalone bool // quit the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game. A nil match gets a fresh local one.
func NewGameModel(game registry.Game, svc Services, cfg core.RuntimeConfig, match *multiplayer.Match) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg = core.ResolveTickRate(cfg, game)
	if match == nil {
		match = newLocalMatch(game, "local")
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		svc:        svc,
		logger:     svc.logger(),
		config:     cfg,
		match:      match,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

func newLocalMatch(game registry.Game, session multiplayer.SessionID) *multiplayer.Match {
	mode := multiplayer.MatchModeHotseat
	if g, ok := game.(moder); ok {
		mode = g.Mode()
	}
	id := multiplayer.MatchID(fmt.Sprintf("local-%d", time.Now().UnixNano()))
	return multiplayer.NewMatch(id, mode, session)
}

// WithNames renames the players when the game starts. Empty names keep
// the game's defaults.
func (m GameModel) WithNames(p1, p2 string) GameModel {
	m.names = [2]string{p1, p2}
	return m
}

// Init starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.applyNames()
	m.loadPrefs()
	m.logger.Info("game started",
		"game", m.game.ID(), "match", m.match.ID(), "sessions", m.match.Sessions(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

func (m GameModel) applyNames() {
	g, ok := m.game.(namer)
	if !ok || (m.names[0] == "" && m.names[1] == "") {
		return
	}
	p1, p2 := m.names[0], m.names[1]
	if p1 == "" {
		p1 = g.PlayerName(core.Player1)
	}
	if p2 == "" {
		p2 = g.PlayerName(core.Player2)
	}
	g.SetPlayerNames(p1, p2)
}

// loadPrefs dials each human player's remembered throw.
func (m GameModel) loadPrefs() {
	g, ok := m.game.(throwTuner)
	if !ok || m.svc.Prefs == nil {
		return
	}
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if !g.IsHuman(id) {
			continue
		}
		ts, found, err := m.svc.Prefs.Load(g.PlayerName(id))
		if err != nil {
			m.logger.Warn("could not load throw settings", "player", g.PlayerName(id), "err", err)
			continue
		}
		if found {
			g.SetThrowSettings(id, ts.Speed, ts.Angle)
		}
	}
}

// savePrefs remembers each human player's current throw.
func (m GameModel) savePrefs() {
	g, ok := m.game.(throwTuner)
	if !ok || m.svc.Prefs == nil {
		return
	}
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		if !g.IsHuman(id) {
			continue
		}
		speed, angle := g.ThrowSettings(id)
		if err := m.svc.Prefs.Save(g.PlayerName(id), prefs.ThrowSettings{Speed: speed, Angle: angle}); err != nil {
			m.logger.Warn("could not save throw settings", "player", g.PlayerName(id), "err", err)
		}
	}
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world keeps its size; only the view is rescaled.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.savePrefs()
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only between rounds or while paused
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.savePrefs()
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.handleEvents(result.Events)

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// handleEvents plays sounds, logs, and persists finished rounds.
func (m GameModel) handleEvents(events []core.Event) {
	for _, e := range events {
		switch e.Kind {
		case core.EventThrow:
			if m.svc.Sound != nil {
				m.svc.Sound.PlayThrow()
			}
			m.logger.Debug("throw", "player", e.Player)

		case core.EventExplosion:
			if m.svc.Sound != nil {
				m.svc.Sound.PlayExplosion()
			}
			m.logger.Debug("explosion", "player", e.Player, "x", int(e.X), "y", int(e.Y))

		case core.EventMiss:
			m.logger.Debug("miss", "player", e.Player)

		case core.EventRoundOver:
			m.logger.Info("round over",
				"winner", e.Winner,
				"loser", e.Loser,
				"throws", e.Throws,
				"match_over", e.MatchOver,
			)
			m.saveRound(e)
			m.savePrefs()
			if e.MatchOver && m.svc.Sound != nil {
				m.svc.Sound.PlayVictory()
			}
		}
	}
}

func (m GameModel) saveRound(e core.Event) {
	if m.svc.Store == nil {
		return
	}
	_, err := m.svc.Store.SaveRound(storage.RoundResult{
		MatchID:     string(m.match.ID()),
		GameID:      m.game.ID(),
		Mode:        m.match.Mode().String(),
		Winner:      e.Winner,
		Loser:       e.Loser,
		Throws:      e.Throws,
		WinnerTotal: e.WinnerTotal,
		MatchOver:   e.MatchOver,
	})
	if err != nil {
		m.logger.Warn("could not save round", "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".gorillas", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot dir", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, svc Services, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, svc, cfg, nil)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

// Package gorillas implements the classic two-player artillery game: two
// gorillas on a city skyline take turns throwing explosive bananas at each
// other, adjusting angle and speed until one of them is hit.
package gorillas

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
)

// Registered game IDs.
const (
	IDHotseat   = "gorillas"
	IDVersusCPU = "gorillas_cpu"
)

// Rows of the terminal used by the status lines above and below the world.
const hudRows = 2

// Smallest terminal the world is laid out for; smaller screens are clipped.
const (
	minCols = 40
	minRows = 10
)

// Phase is the turn state.
type Phase int

const (
	PhaseIdle      Phase = iota // current player is aiming
	PhaseThrowing               // banana in flight
	PhaseExploding              // explosion animating
	PhaseGameOver               // a gorilla was hit, round decided
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseThrowing:
		return "throwing_banana"
	case PhaseExploding:
		return "exploding"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for ph := PhaseIdle; ph <= PhaseGameOver; ph++ {
		if ph.String() == string(text) {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("gorillas: unknown phase %q", text)
}

// Settings chosen on the command line before games are created.
var (
	configPath       string
	difficultyPreset = config.DifficultyNormal
	winScoreOverride = -1
)

// SetConfigPath sets a custom config file path for subsequently created games.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the CPU difficulty for subsequently created games.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetWinScore overrides the rounds needed to win a match; negative keeps the config.
func SetWinScore(n int) {
	winScoreOverride = n
}

// LoadConfig returns the configuration new games are created with.
func LoadConfig() config.GorillasConfig {
	return LoadConfigFor(difficultyPreset, winScoreOverride)
}

// LoadConfigFor loads the configuration with an explicit CPU difficulty
// and local win score; a negative winScore keeps the file's value.
func LoadConfigFor(preset config.DifficultyPreset, winScore int) config.GorillasConfig {
	cfg, err := config.LoadGorillas(configPath)
	if err != nil {
		cfg = config.DefaultGorillasConfig()
	}
	config.ApplyGorillasPreset(&cfg, preset)
	if winScore >= 0 {
		cfg.Gameplay.WinScore = winScore
	}
	return cfg
}

// CurrentDifficulty returns the preset set with SetDifficultyPreset.
func CurrentDifficulty() config.DifficultyPreset {
	return difficultyPreset
}

// Game is the gorillas controller: skyline, two players, craters and the
// turn state machine.
type Game struct {
	mode multiplayer.MatchMode
	cfg  config.GorillasConfig

	runtime core.RuntimeConfig
	rng     *rand.Rand
	world   World
	skyline SkylineSpec
	limits  ThrowLimits

	buildings []*Building
	players   [2]*Gorilla
	craters   []*Explosion
	explosion *Explosion

	phase     Phase
	current   int
	scores    [2]int
	winner    int // index of the round winner, -1 while undecided
	matchOver bool
	winScore  int
	round     int
	throws    int
	message   string
	paused    bool
	tickCount int
	overTicks int

	local  core.PlayerID // seat shown as "you" in online play, 0 for local games
	cpu    *cpuPlayer
	events []core.Event
}

// New creates a game for mode with the configuration from LoadConfig.
func New(mode multiplayer.MatchMode) *Game {
	return NewWithConfig(mode, LoadConfig())
}

// NewOnline creates a game for a networked match.
func NewOnline() *Game {
	return New(multiplayer.MatchModeOnlinePvP)
}

// NewWithConfig creates a game for mode with an explicit configuration.
func NewWithConfig(mode multiplayer.MatchMode, cfg config.GorillasConfig) *Game {
	g := &Game{mode: mode, cfg: cfg, winner: -1}
	g.winScore = cfg.Gameplay.WinScore
	if mode == multiplayer.MatchModeOnlinePvP {
		g.winScore = cfg.Gameplay.OnlineWinScore
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == multiplayer.MatchModeVsCPU {
		return IDVersusCPU
	}
	return IDHotseat
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	switch g.mode {
	case multiplayer.MatchModeVsCPU:
		return "Gorillas vs CPU"
	case multiplayer.MatchModeOnlinePvP:
		return "Gorillas Online"
	default:
		return "Gorillas"
	}
}

// Mode returns the match mode.
func (g *Game) Mode() multiplayer.MatchMode {
	return g.mode
}

// Config returns the configuration in use.
func (g *Game) Config() config.GorillasConfig {
	return g.cfg
}

// TickRate returns the simulation rate implied by the update delay.
func (g *Game) TickRate() int {
	return g.cfg.TickRate()
}

// WorldFor returns the world size laid out on a terminal of the given size.
func WorldFor(cfg config.GorillasConfig, screenW, screenH int) World {
	cols := max(screenW, minCols)
	rows := max(screenH-hudRows, minRows)
	return World{
		Width:  float64(cols) * cfg.Display.CellWidth,
		Height: float64(rows) * cfg.Display.CellHeight,
	}
}

// ScreenFor returns the terminal size whose world is width x height pixels.
func ScreenFor(cfg config.GorillasConfig, width, height int) (cols, rows int) {
	cols = int(float64(width) / cfg.Display.CellWidth)
	rows = int(float64(height)/cfg.Display.CellHeight) + hudRows
	return cols, rows
}

// Reset starts a new match: fresh scores, players and the first round.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.world = WorldFor(g.cfg, runtime.ScreenW, runtime.ScreenH)
	g.skyline = skylineFromConfig(g.cfg)
	g.limits = ThrowLimits{
		MaxSpeed: g.cfg.Physics.MaxSpeed,
		MinAngle: g.cfg.Physics.MinAngle,
		MaxAngle: g.cfg.Physics.MaxAngle,
	}

	names := g.defaultNames()
	for i := range g.players {
		b := NewBanana(g.world, g.cfg.Physics.Gravity, g.cfg.Banana.Size, g.limits)
		b.SetSpeed(g.cfg.Physics.DefaultSpeed)
		b.SetAngle(g.cfg.Physics.DefaultAngle)
		if i == 1 {
			_ = b.SetDirection(Left)
		}
		g.players[i] = NewGorilla(names[i], g.cfg.Gorilla.Width, g.cfg.Gorilla.Height,
			b, g.cfg.Banana.LaunchHeight, g.cfg.Gorilla.ThrowPoseTicks)
	}

	g.cpu = nil
	if g.mode == multiplayer.MatchModeVsCPU {
		g.cpu = newCPUPlayer(g.cfg, g.rng)
	}

	g.scores = [2]int{}
	g.matchOver = false
	g.round = 0
	g.paused = false
	g.tickCount = 0
	g.current = 1 // first round passes the turn to player 1
	g.events = nil
	g.newRound()
}

func (g *Game) defaultNames() [2]string {
	names := [2]string{"Gorilla 1", "Gorilla 2"}
	for i := 0; i < len(g.cfg.Gameplay.PlayerNames) && i < 2; i++ {
		names[i] = g.cfg.Gameplay.PlayerNames[i]
	}
	if g.mode == multiplayer.MatchModeVsCPU && g.cfg.Gameplay.CPUName != "" {
		names[1] = g.cfg.Gameplay.CPUName
	}
	return names
}

func skylineFromConfig(cfg config.GorillasConfig) SkylineSpec {
	b := cfg.Buildings
	sky := SkylineSpec{
		Layout: WindowLayout{
			RoomWidth:   b.RoomWidth,
			FloorHeight: b.FloorHeight,
			Width:       b.WindowWidth,
			Height:      b.WindowHeight,
		},
		MinRooms:         b.MinRooms,
		MaxRooms:         b.MaxRooms,
		MinHeight:        b.MinHeight,
		MaxHeight:        b.MaxHeight,
		LightProbability: b.LightProbability,
		DimRate:          b.DimRate,
	}
	colors, err := cfg.BuildingColors()
	if err != nil || len(colors) == 0 {
		colors = DefaultSkyline().Colors
	}
	sky.Colors = colors
	return sky
}

// newRound builds a new skyline, puts both gorillas on it and hands the
// first turn to the player who did not throw last. Scores and dialed
// throws are kept.
func (g *Game) newRound() {
	g.buildings = GenerateSkyline(g.rng, g.world, g.skyline)
	g.craters = nil
	g.explosion = nil
	g.winner = -1
	g.throws = 0
	g.overTicks = 0
	g.round++

	n := len(g.buildings)
	reach := min(g.cfg.Gorilla.EdgeBuildings, n/2-1)
	reach = max(reach, 0)
	left := g.rng.Intn(reach + 1)
	right := n - 1 - g.rng.Intn(reach+1)

	g.players[0].StandOn(g.buildings[left])
	g.players[1].StandOn(g.buildings[right])
	for _, p := range g.players {
		p.Show()
		p.pose = PoseArmsDown
		p.poseTicks = 0
		p.Banana().Reset()
		p.Banana().Hide()
	}
	if g.cpu != nil {
		g.cpu.newRound()
	}

	g.phase = PhaseIdle
	g.passTurn("")
}

// passTurn gives the turn to the other player.
func (g *Game) passTurn(prefix string) {
	g.current = 1 - g.current
	g.phase = PhaseIdle
	g.message = prefix + fmt.Sprintf("%s's turn", g.players[g.current].Name())
}

// Step advances a local game by one tick. The keyboard drives whichever
// player has the turn; in vs CPU games the CPU plays its own turns.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = nil

	if in.Has(core.ActionPause) && g.phase != PhaseGameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	if g.phase == PhaseGameOver {
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.Replay()
		}
		return g.result()
	}

	turn := in
	if g.cpu != nil && g.current == 1 {
		turn = core.NewInputFrame()
		if g.phase == PhaseIdle {
			turn = g.cpu.Decide(g)
		}
	}
	g.tick(turn)
	return g.result()
}

// StepMulti advances a networked game by one tick. Only the player whose
// turn it is can aim and throw; pausing is not possible. A decided round
// is followed by the next one after the configured delay, until the match
// is over.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.events = nil
	if g.phase == PhaseGameOver {
		if g.matchOver {
			return g.result()
		}
		g.tickCount++
		g.overTicks++
		if g.overTicks >= g.cfg.Ticks(g.cfg.Gameplay.RoundOverDelayMS) {
			g.newRound()
		}
		return g.result()
	}
	g.tick(in.Player(g.CurrentPlayer()))
	return g.result()
}

// Replay starts the next round after a decided one. After a decided match
// the scores start over.
func (g *Game) Replay() {
	if g.phase != PhaseGameOver {
		return
	}
	if g.matchOver {
		g.scores = [2]int{}
		g.matchOver = false
	}
	g.newRound()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Events: g.events}
}

func (g *Game) tick(in core.InputFrame) {
	g.tickCount++
	for _, p := range g.players {
		p.Update()
	}

	switch g.phase {
	case PhaseIdle:
		g.stepIdle(in)
	case PhaseThrowing:
		g.stepThrowing()
	case PhaseExploding:
		g.stepExploding()
	}
}

func (g *Game) stepIdle(in core.InputFrame) {
	for _, b := range g.buildings {
		b.Update()
	}

	b := g.players[g.current].Banana()
	if in.Has(core.ActionUp) {
		b.AdjustAngle(g.cfg.Physics.AngleStep)
	}
	if in.Has(core.ActionDown) {
		b.AdjustAngle(-g.cfg.Physics.AngleStep)
	}
	if in.Has(core.ActionRight) {
		b.AdjustSpeed(g.cfg.Physics.SpeedStep)
	}
	if in.Has(core.ActionLeft) {
		b.AdjustSpeed(-g.cfg.Physics.SpeedStep)
	}
	if in.Has(core.ActionThrow) || in.Has(core.ActionConfirm) {
		g.throw()
	}
}

// throw launches the current player's banana.
func (g *Game) throw() {
	thrower := g.players[g.current]
	b := thrower.Banana()
	b.Reset()
	b.Start()
	thrower.Throw()
	g.throws++
	g.phase = PhaseThrowing
	x, y := b.Position()
	g.message = fmt.Sprintf("%s throws: angle %d, speed %d", thrower.Name(), b.Angle(), b.Speed())
	g.emit(core.Event{Kind: core.EventThrow, X: x, Y: y})
}

// stepThrowing moves the banana and resolves collisions: opposing gorillas
// first, then buildings, ignoring building hits inside craters. The first
// hit explodes.
func (g *Game) stepThrowing() {
	b := g.players[g.current].Banana()
	b.Update()

	for i, p := range g.players {
		if i == g.current || !p.Visible() {
			continue
		}
		if b.Hits(p) {
			g.explode(b, p)
			return
		}
	}
	for _, bl := range g.buildings {
		if b.HitsWhere(bl, g.InCrater) {
			g.explode(b, bl)
			return
		}
	}

	if b.IsMoving() {
		x, y := b.Position()
		g.message = fmt.Sprintf("(%d,%d)", int(x), int(y))
		return
	}

	x, y := b.Position()
	g.emit(core.Event{Kind: core.EventMiss, X: x, Y: y})
	g.passTurn("Missed! ")
}

func (g *Game) explode(b *Banana, target Target) {
	x, y := b.Position()
	b.Stop()
	b.Hide()
	g.explosion = NewExplosion(x, y, g.cfg.Explosion.ExpansionRate, g.cfg.Explosion.Steps, target)
	g.phase = PhaseExploding
	g.emit(core.Event{Kind: core.EventExplosion, X: x, Y: y})
}

func (g *Game) stepExploding() {
	g.explosion.Update()
	if g.explosion.IsExploding() {
		return
	}

	done := g.explosion
	g.craters = append(g.craters, done)
	g.explosion = nil

	for i, p := range g.players {
		if done.Hit() == Target(p) {
			g.endRound(i)
			return
		}
	}
	g.passTurn("")
}

// endRound scores the round for the opponent of loser.
func (g *Game) endRound(loser int) {
	winner := 1 - loser
	g.scores[winner]++
	g.winner = winner
	g.players[loser].Hide()
	g.phase = PhaseGameOver
	g.matchOver = g.winScore > 0 && g.scores[winner] >= g.winScore

	name := g.players[winner].Name()
	if g.matchOver {
		g.message = fmt.Sprintf("%s wins the match %d-%d!", name, g.scores[winner], g.scores[loser])
	} else {
		g.message = fmt.Sprintf("%s wins!", name)
	}
	g.emit(core.Event{
		Kind:        core.EventRoundOver,
		Winner:      name,
		Loser:       g.players[loser].Name(),
		Throws:      g.throws,
		WinnerTotal: g.scores[winner],
		MatchOver:   g.matchOver,
	})
}

func (g *Game) emit(e core.Event) {
	e.Player = g.CurrentPlayer()
	g.events = append(g.events, e)
}

// InCrater reports whether (x, y) lies in any crater.
func (g *Game) InCrater(x, y float64) bool {
	for _, c := range g.craters {
		if c.Contains(x, y) {
			return true
		}
	}
	return false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.scores[0],
		GameOver: g.phase == PhaseGameOver,
		Paused:   g.paused,
	}
}

// Phase returns the turn state.
func (g *Game) Phase() Phase {
	return g.phase
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() core.PlayerID {
	return core.PlayerAt(g.current)
}

// Players returns both gorillas.
func (g *Game) Players() [2]*Gorilla {
	return g.players
}

// Buildings returns the skyline.
func (g *Game) Buildings() []*Building {
	return g.buildings
}

// Craters returns the finished explosions of this round.
func (g *Game) Craters() []*Explosion {
	return g.craters
}

// ActiveExplosion returns the explosion being animated, if any.
func (g *Game) ActiveExplosion() *Explosion {
	return g.explosion
}

// World returns the playfield size.
func (g *Game) World() World {
	return g.world
}

// Message returns the status line.
func (g *Game) Message() string {
	return g.message
}

// Scores returns the rounds won by each player.
func (g *Game) Scores() [2]int {
	return g.scores
}

// Round returns the round number, starting at 1.
func (g *Game) Round() int {
	return g.round
}

// Throws returns the number of throws in the current round.
func (g *Game) Throws() int {
	return g.throws
}

// MatchOver reports whether a player reached the win score.
func (g *Game) MatchOver() bool {
	return g.matchOver
}

// SetPlayerNames renames both players.
func (g *Game) SetPlayerNames(p1, p2 string) {
	if g.players[0] == nil {
		return
	}
	g.players[0].SetName(p1)
	g.players[1].SetName(p2)
	if g.phase == PhaseIdle {
		g.message = fmt.Sprintf("%s's turn", g.players[g.current].Name())
	}
}

// PlayerName returns the name of a player.
func (g *Game) PlayerName(id core.PlayerID) string {
	if g.players[id.Index()] == nil {
		return ""
	}
	return g.players[id.Index()].Name()
}

// SetLocalPlayer marks the seat of this terminal in an online match.
func (g *Game) SetLocalPlayer(id core.PlayerID) {
	g.local = id
}

// ThrowSettings returns the dialed speed and angle of a player.
func (g *Game) ThrowSettings(id core.PlayerID) (speed, angle int) {
	b := g.players[id.Index()].Banana()
	return b.Speed(), b.Angle()
}

// SetThrowSettings dials speed and angle for a player. Out of range values
// are ignored individually.
func (g *Game) SetThrowSettings(id core.PlayerID, speed, angle int) {
	b := g.players[id.Index()].Banana()
	b.SetSpeed(speed)
	b.SetAngle(angle)
}

// IsHuman reports whether a seat is played from the keyboard or network.
func (g *Game) IsHuman(id core.PlayerID) bool {
	return g.cpu == nil || id == core.Player1
}

// IsGameOver reports whether the match is decided.
func (g *Game) IsGameOver() bool {
	return g.matchOver
}

// Winner returns the match winner, or 0 while undecided.
func (g *Game) Winner() core.PlayerID {
	if !g.matchOver || g.winner < 0 {
		return 0
	}
	return core.PlayerAt(g.winner)
}

// Score1 returns Player 1's rounds won.
func (g *Game) Score1() int {
	return g.scores[0]
}

// Score2 returns Player 2's rounds won.
func (g *Game) Score2() int {
	return g.scores[1]
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          IDHotseat,
		Title:       "Gorillas",
		Description: "Two players take turns at one keyboard",
	}, func() registry.Game {
		return New(multiplayer.MatchModeHotseat)
	})
	registry.Register(registry.GameInfo{
		ID:          IDVersusCPU,
		Title:       "Gorillas vs CPU",
		Description: "Duel a computer gorilla that learns your skyline",
	}, func() registry.Game {
		return New(multiplayer.MatchModeVsCPU)
	})
}

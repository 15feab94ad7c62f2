package gorillas

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 16}

func newTestGame(mode multiplayer.MatchMode, seed int64) *Game {
	return newTestGameWithConfig(mode, config.DefaultGorillasConfig(), seed)
}

func newTestGameWithConfig(mode multiplayer.MatchMode, cfg config.GorillasConfig, seed int64) *Game {
	g := NewWithConfig(mode, cfg)
	rt := testRuntime
	rt.Seed = seed
	g.Reset(rt)
	return g
}

// clearSkyline removes all buildings and puts player 2 where player 1's
// current throw will be after ten ticks.
func clearSkyline(g *Game) {
	g.buildings = nil
	sim := g.players[0].Banana().clone()
	sim.Reset()
	sim.Start()
	for i := 0; i < 10; i++ {
		sim.Update()
	}
	g.players[1].MoveTo(sim.Position())
}

func hasEvent(events []core.Event, kind core.EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// runLocal steps with empty input until done returns true, collecting events.
func runLocal(g *Game, limit int, done func() bool) []core.Event {
	var events []core.Event
	for i := 0; i < limit && !done(); i++ {
		res := g.Step(core.NewInputFrame())
		events = append(events, res.Events...)
	}
	return events
}

func TestGameResetLayout(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 1)

	if g.Phase() != PhaseIdle {
		t.Errorf("phase = %v, expected idle", g.Phase())
	}
	if g.CurrentPlayer() != core.Player1 {
		t.Errorf("first turn goes to %v, expected player 1", g.CurrentPlayer())
	}
	if g.Round() != 1 || g.Scores() != [2]int{} {
		t.Errorf("round %d scores %v, expected round 1 with no score", g.Round(), g.Scores())
	}
	if g.Message() != "Gorilla 1's turn" {
		t.Errorf("message = %q", g.Message())
	}
	if w := g.World(); w.Width != 800 || w.Height != 440 {
		t.Errorf("world = %+v, expected 800x440", w)
	}

	players := g.Players()
	x1, _ := players[0].Position()
	x2, _ := players[1].Position()
	if x1 >= x2 {
		t.Errorf("player 1 at x=%v is not left of player 2 at x=%v", x1, x2)
	}
	if players[1].Banana().Direction() != Left {
		t.Error("player 2 should throw to the left")
	}

	for i, p := range players {
		if !p.Visible() {
			t.Errorf("player %d hidden", i+1)
		}
		x, y := p.Position()
		onRoof := false
		for _, b := range g.Buildings() {
			if b.Left() < x && x < b.Right() && y == b.Top()-p.Height()/2 {
				onRoof = true
			}
		}
		if !onRoof {
			t.Errorf("player %d at (%v, %v) is not standing on a roof", i+1, x, y)
		}
	}
}

func TestGameAimControls(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 1)

	steps := []struct {
		action core.Action
		speed  int
		angle  int
	}{
		{core.ActionUp, 20, 50},
		{core.ActionDown, 20, 45},
		{core.ActionRight, 21, 45},
		{core.ActionLeft, 20, 45},
		{core.ActionLeft, 19, 45},
	}

	for _, s := range steps {
		g.Step(core.FrameOf(s.action))
		speed, angle := g.ThrowSettings(core.Player1)
		if speed != s.speed || angle != s.angle {
			t.Errorf("after %v: speed %d angle %d, expected %d/%d", s.action, speed, angle, s.speed, s.angle)
		}
	}

	g.SetThrowSettings(core.Player1, 99, 90)
	g.Step(core.FrameOf(core.ActionUp, core.ActionRight))
	if speed, angle := g.ThrowSettings(core.Player1); speed != 99 || angle != 90 {
		t.Errorf("limits not enforced: speed %d angle %d", speed, angle)
	}

	if speed, angle := g.ThrowSettings(core.Player2); speed != 20 || angle != 45 {
		t.Errorf("waiting player's settings changed: %d/%d", speed, angle)
	}
}

func TestGameMissPassesTurn(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 1)
	g.buildings = nil
	g.SetThrowSettings(core.Player1, 10, 90)

	res := g.Step(core.FrameOf(core.ActionThrow))
	if g.Phase() != PhaseThrowing {
		t.Fatalf("phase after throw = %v, expected throwing_banana", g.Phase())
	}
	if !hasEvent(res.Events, core.EventThrow) || res.Events[0].Player != core.Player1 {
		t.Errorf("expected a throw event by player 1, got %+v", res.Events)
	}

	// Input while the banana flies is ignored.
	g.Step(core.FrameOf(core.ActionUp))
	if _, angle := g.ThrowSettings(core.Player1); angle != 90 {
		t.Errorf("angle changed mid-flight to %d", angle)
	}

	events := runLocal(g, 1000, func() bool { return g.Phase() != PhaseThrowing })
	if g.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, expected idle after a miss", g.Phase())
	}
	if !hasEvent(events, core.EventMiss) {
		t.Error("expected a miss event")
	}
	if g.CurrentPlayer() != core.Player2 {
		t.Errorf("turn = %v, expected player 2", g.CurrentPlayer())
	}
	if !strings.HasPrefix(g.Message(), "Missed! ") || !strings.Contains(g.Message(), "Gorilla 2's turn") {
		t.Errorf("message = %q", g.Message())
	}
	if len(g.Craters()) != 0 {
		t.Error("a miss should leave no crater")
	}
	if g.Scores() != [2]int{} {
		t.Errorf("a miss changed the score: %v", g.Scores())
	}
}

func TestGameGorillaHitScoresOpponent(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 2)
	clearSkyline(g)
	g.SetThrowSettings(core.Player2, 33, 60)

	g.Step(core.FrameOf(core.ActionThrow))
	events := runLocal(g, 500, func() bool { return g.Phase() == PhaseGameOver })

	if g.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, expected game_over", g.Phase())
	}
	if !hasEvent(events, core.EventExplosion) {
		t.Error("expected an explosion before the round ended")
	}
	if g.Scores() != [2]int{1, 0} {
		t.Errorf("scores = %v, expected [1 0]", g.Scores())
	}
	if g.Players()[1].Visible() {
		t.Error("the hit gorilla should be hidden")
	}
	if !g.State().GameOver || g.IsGameOver() {
		t.Error("round should be over but the endless match should not")
	}
	if len(g.Craters()) != 1 {
		t.Errorf("expected the explosion to leave a crater, got %d", len(g.Craters()))
	}

	var over *core.Event
	for i := range events {
		if events[i].Kind == core.EventRoundOver {
			over = &events[i]
		}
	}
	if over == nil {
		t.Fatal("expected a round over event")
	}
	if over.Winner != "Gorilla 1" || over.Loser != "Gorilla 2" || over.Throws != 1 || over.WinnerTotal != 1 || over.MatchOver {
		t.Errorf("round over event = %+v", *over)
	}

	// Input other than replay keeps the result on screen.
	g.Step(core.FrameOf(core.ActionUp))
	if g.Phase() != PhaseGameOver {
		t.Fatal("round left game_over without a replay")
	}

	g.Step(core.FrameOf(core.ActionRestart))
	if g.Phase() != PhaseIdle || g.Round() != 2 {
		t.Fatalf("after replay: phase %v round %d", g.Phase(), g.Round())
	}
	if g.Scores() != [2]int{1, 0} {
		t.Errorf("replay lost the scores: %v", g.Scores())
	}
	if len(g.Craters()) != 0 {
		t.Error("new round should have no craters")
	}
	if g.CurrentPlayer() != core.Player2 {
		t.Errorf("next round starts with %v, expected player 2", g.CurrentPlayer())
	}
	if speed, angle := g.ThrowSettings(core.Player2); speed != 33 || angle != 60 {
		t.Errorf("dialed throw not kept across rounds: %d/%d", speed, angle)
	}
	for i, p := range g.Players() {
		if !p.Visible() {
			t.Errorf("player %d hidden in the new round", i+1)
		}
	}
}

func TestGameMatchOverResetsScores(t *testing.T) {
	cfg := config.DefaultGorillasConfig()
	cfg.Gameplay.WinScore = 1
	g := newTestGameWithConfig(multiplayer.MatchModeHotseat, cfg, 2)
	clearSkyline(g)

	g.Step(core.FrameOf(core.ActionThrow))
	runLocal(g, 500, func() bool { return g.Phase() == PhaseGameOver })

	if !g.MatchOver() || !g.IsGameOver() {
		t.Fatal("reaching the win score should end the match")
	}
	if g.Winner() != core.Player1 {
		t.Errorf("winner = %v, expected player 1", g.Winner())
	}
	if !strings.Contains(g.Message(), "wins the match 1-0") {
		t.Errorf("message = %q", g.Message())
	}

	g.Step(core.FrameOf(core.ActionConfirm))
	if g.MatchOver() || g.Scores() != [2]int{} {
		t.Errorf("new match kept scores %v", g.Scores())
	}
	if g.Winner() != 0 {
		t.Errorf("winner = %v after a new match", g.Winner())
	}
}

func TestGameBuildingHitLeavesCrater(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 3)
	w := g.World()
	street := NewBuilding(0, w.Height, w.Width, w.Height/2, core.ColorRed, g.skyline.Layout)
	g.buildings = []*Building{street}
	g.players[0].MoveTo(100, street.Top()-20)
	g.players[1].MoveTo(w.Width-20, street.Top()-20)

	g.Step(core.FrameOf(core.ActionThrow))
	sawExploding := false
	events := runLocal(g, 1000, func() bool {
		if g.Phase() == PhaseExploding {
			sawExploding = true
		}
		return g.Phase() == PhaseIdle
	})

	if !sawExploding || !hasEvent(events, core.EventExplosion) {
		t.Fatal("banana should have exploded on the building")
	}
	if len(g.Craters()) != 1 {
		t.Fatalf("expected 1 crater, got %d", len(g.Craters()))
	}
	crater := g.Craters()[0]
	if crater.Hit() != Target(street) {
		t.Error("crater should remember the building it hit")
	}
	if crater.Radius() != 50 {
		t.Errorf("crater radius = %v, expected 50", crater.Radius())
	}
	if x, y := crater.Position(); !g.InCrater(x, y) {
		t.Error("crater center not inside a crater")
	}
	if g.ActiveExplosion() != nil {
		t.Error("finished explosion still active")
	}
	if g.CurrentPlayer() != core.Player2 || g.Message() != "Gorilla 2's turn" {
		t.Errorf("turn %v message %q, expected player 2's turn", g.CurrentPlayer(), g.Message())
	}
}

func TestGameCraterLetsBananaThrough(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 1)
	street := NewBuilding(0, 440, 800, 220, core.ColorRed, testLayout)
	g.buildings = []*Building{street}

	b := NewBanana(g.World(), 1, 10, DefaultLimits())
	b.SetStart(400, 300)
	b.Start()
	if !b.HitsWhere(street, g.InCrater) {
		t.Fatal("banana inside the building should hit")
	}

	crater := NewExplosion(400, 300, 5, 10, street)
	for crater.IsExploding() {
		crater.Update()
	}
	g.craters = append(g.craters, crater)

	if b.HitsWhere(street, g.InCrater) {
		t.Error("banana inside a crater should fly through")
	}

	deep := NewBanana(g.World(), 1, 10, DefaultLimits())
	deep.SetStart(400, 400)
	deep.Start()
	if !deep.HitsWhere(street, g.InCrater) {
		t.Error("building below the crater should still be solid")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 1)

	g.Step(core.FrameOf(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	g.Step(core.FrameOf(core.ActionThrow))
	if g.Phase() != PhaseIdle || g.Throws() != 0 {
		t.Error("paused game accepted a throw")
	}
	if h := g.HUD(); h.Banner != "PAUSED" {
		t.Errorf("HUD banner = %q", h.Banner)
	}

	g.Step(core.FrameOf(core.ActionPause))
	g.Step(core.FrameOf(core.ActionThrow))
	if g.Phase() != PhaseThrowing {
		t.Errorf("phase = %v after unpausing and throwing", g.Phase())
	}
}

func TestGameDeterminism(t *testing.T) {
	script := map[int]core.Action{
		3:   core.ActionUp,
		5:   core.ActionRight,
		8:   core.ActionThrow,
		200: core.ActionLeft,
		210: core.ActionThrow,
	}
	run := func() GorillasSnapshot {
		g := newTestGame(multiplayer.MatchModeVsCPU, 99)
		for i := 0; i < 800; i++ {
			in := core.NewInputFrame()
			if a, ok := script[i]; ok {
				in.Set(a)
			}
			g.Step(in)
		}
		return g.snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and input produced different games")
	}
}

func TestGameStepMultiOnlyCurrentPlayer(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeOnlinePvP, 1)

	in := core.NewMultiInputFrame()
	in.SetPlayer(core.Player2, core.FrameOf(core.ActionUp, core.ActionThrow))
	g.StepMulti(in)

	if g.Phase() != PhaseIdle {
		t.Fatal("waiting player was able to throw")
	}
	if _, angle := g.ThrowSettings(core.Player2); angle != 45 {
		t.Errorf("waiting player's angle = %d", angle)
	}

	in = core.NewMultiInputFrame()
	in.SetPlayer(core.Player1, core.FrameOf(core.ActionUp))
	g.StepMulti(in)
	if _, angle := g.ThrowSettings(core.Player1); angle != 50 {
		t.Errorf("current player's angle = %d, expected 50", angle)
	}
}

func TestGameOnlineNextRoundAfterDelay(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeOnlinePvP, 2)
	clearSkyline(g)

	in := core.NewMultiInputFrame()
	in.SetPlayer(core.Player1, core.FrameOf(core.ActionThrow))
	g.StepMulti(in)
	for i := 0; i < 500 && g.Phase() != PhaseGameOver; i++ {
		g.StepMulti(core.NewMultiInputFrame())
	}
	if g.Phase() != PhaseGameOver || g.MatchOver() {
		t.Fatalf("phase %v match over %v, expected a decided round", g.Phase(), g.MatchOver())
	}

	delay := g.Config().Ticks(g.Config().Gameplay.RoundOverDelayMS)
	for i := 0; i < delay-1; i++ {
		g.StepMulti(core.NewMultiInputFrame())
	}
	if g.Phase() != PhaseGameOver {
		t.Fatal("next round started before the delay")
	}
	g.StepMulti(core.NewMultiInputFrame())
	if g.Phase() != PhaseIdle || g.Round() != 2 {
		t.Errorf("phase %v round %d, expected round 2 to start", g.Phase(), g.Round())
	}
	if g.Scores() != [2]int{1, 0} {
		t.Errorf("scores = %v", g.Scores())
	}
}

func TestGameOnlineMatchOverStays(t *testing.T) {
	cfg := config.DefaultGorillasConfig()
	cfg.Gameplay.OnlineWinScore = 1
	g := newTestGameWithConfig(multiplayer.MatchModeOnlinePvP, cfg, 2)
	clearSkyline(g)

	in := core.NewMultiInputFrame()
	in.SetPlayer(core.Player1, core.FrameOf(core.ActionThrow))
	g.StepMulti(in)
	for i := 0; i < 500; i++ {
		g.StepMulti(core.NewMultiInputFrame())
	}

	if !g.IsGameOver() || g.Winner() != core.Player1 {
		t.Errorf("match over %v winner %v, expected player 1 to win", g.IsGameOver(), g.Winner())
	}
	if g.Round() != 1 {
		t.Errorf("a decided match started round %d", g.Round())
	}
}

func TestGameIDsAndNames(t *testing.T) {
	hot := newTestGame(multiplayer.MatchModeHotseat, 1)
	cpu := newTestGame(multiplayer.MatchModeVsCPU, 1)

	if hot.ID() != IDHotseat || cpu.ID() != IDVersusCPU {
		t.Errorf("ids = %q, %q", hot.ID(), cpu.ID())
	}
	if cpu.PlayerName(core.Player2) != "CPU" {
		t.Errorf("cpu name = %q", cpu.PlayerName(core.Player2))
	}
	if !cpu.IsHuman(core.Player1) || cpu.IsHuman(core.Player2) || !hot.IsHuman(core.Player2) {
		t.Error("wrong human seats")
	}

	hot.SetPlayerNames("Ann", "Bob")
	if hot.PlayerName(core.Player1) != "Ann" || hot.Message() != "Ann's turn" {
		t.Errorf("rename: name %q message %q", hot.PlayerName(core.Player1), hot.Message())
	}
}

func TestPhaseText(t *testing.T) {
	for ph := PhaseIdle; ph <= PhaseGameOver; ph++ {
		text, err := ph.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Phase
		if err := got.UnmarshalText(text); err != nil || got != ph {
			t.Errorf("phase %v decoded as %v (%v)", ph, got, err)
		}
	}
	var p Phase
	if err := p.UnmarshalText([]byte("flying")); err == nil {
		t.Error("expected an error for an unknown phase")
	}
}

func TestWorldAndScreenSizes(t *testing.T) {
	cfg := config.DefaultGorillasConfig()

	cols, rows := ScreenFor(cfg, 800, 500)
	if cols != 80 || rows != 27 {
		t.Errorf("ScreenFor(800, 500) = %dx%d, expected 80x27", cols, rows)
	}
	if w := WorldFor(cfg, cols, rows); w.Width != 800 || w.Height != 500 {
		t.Errorf("WorldFor(%d, %d) = %+v", cols, rows, w)
	}
	if w := WorldFor(cfg, 10, 5); w.Width != 400 || w.Height != 200 {
		t.Errorf("tiny terminal world = %+v, expected the 40x10 minimum", w)
	}
}

func TestRenderShowsWorldAndStatus(t *testing.T) {
	g := newTestGame(multiplayer.MatchModeHotseat, 4)
	s := core.NewScreen(80, 24)
	g.Render(s)

	if !strings.Contains(s.Row(0), "Gorilla 1") || !strings.Contains(s.Row(0), "Gorilla 2") {
		t.Errorf("status row = %q", s.Row(0))
	}
	if !strings.Contains(s.Row(23), "Gorilla 1's turn") {
		t.Errorf("message row = %q", s.Row(23))
	}
	if !strings.ContainsRune(s.Row(22), solidRune) {
		t.Error("bottom world row should show buildings")
	}
}

// hoverBanana gives the current player a banana resting in the air at (x, y)
// that counts as in flight, and puts the game in the throwing phase.
func hoverBanana(g *Game, x, y float64) {
	b := NewBanana(g.World(), 0, 10, DefaultLimits())
	b.SetSpeed(0)
	b.SetStart(x, y)
	b.Start()
	g.players[g.current].banana = b
	g.phase = PhaseThrowing
}

func TestGameCollisionPriority(t *testing.T) {
	tests := []struct {
		name      string
		at        func(g *Game) (float64, float64)
		buildings bool
		wantHit   func(g *Game) Target
	}{
		{
			name:      "opponent inside a building",
			at:        func(g *Game) (float64, float64) { return g.players[1].Position() },
			buildings: true,
			wantHit:   func(g *Game) Target { return g.players[1] },
		},
		{
			name:      "building only",
			at:        func(g *Game) (float64, float64) { return 400, 400 },
			buildings: true,
			wantHit:   func(g *Game) Target { return g.buildings[0] },
		},
		{
			name:    "own gorilla",
			at:      func(g *Game) (float64, float64) { return g.players[0].Position() },
			wantHit: func(*Game) Target { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(multiplayer.MatchModeHotseat, 1)
			w := g.World()
			g.buildings = nil
			g.players[0].MoveTo(100, 200)
			g.players[1].MoveTo(600, 380)
			if tt.buildings {
				// The block covers player 2 completely.
				g.buildings = []*Building{NewBuilding(300, w.Height, 400, w.Height-300, core.ColorRed, g.skyline.Layout)}
			}
			if g.CurrentPlayer() != core.Player1 {
				t.Fatalf("current = %v, expected player 1", g.CurrentPlayer())
			}

			x, y := tt.at(g)
			hoverBanana(g, x, y)
			g.Step(core.NewInputFrame())

			want := tt.wantHit(g)
			if want == nil {
				if g.Phase() != PhaseThrowing || g.ActiveExplosion() != nil {
					t.Fatalf("phase %v: the thrower must not hit itself", g.Phase())
				}
				return
			}
			if g.Phase() != PhaseExploding {
				t.Fatalf("phase = %v, expected exploding", g.Phase())
			}
			if got := g.ActiveExplosion().Hit(); got != want {
				t.Errorf("hit %T, expected %T", got, want)
			}
		})
	}
}

func TestGameGorillasStandApart(t *testing.T) {
	tests := []struct {
		name     string
		roomW    float64
		minRooms int
		maxRooms int
	}{
		{"room wider than the world", 1000, 1, 1},
		{"one building fills the world", 100, 8, 8},
		{"defaults", 16, 5, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultGorillasConfig()
			cfg.Buildings.RoomWidth = tt.roomW
			cfg.Buildings.MinRooms, cfg.Buildings.MaxRooms = tt.minRooms, tt.maxRooms

			for seed := int64(1); seed <= 5; seed++ {
				g := newTestGameWithConfig(multiplayer.MatchModeHotseat, cfg, seed)
				if n := len(g.Buildings()); n < 2 {
					t.Fatalf("seed %d: %d buildings", seed, n)
				}
				left, _ := g.Players()[0].Position()
				right, _ := g.Players()[1].Position()
				if roofUnder(g, left) == roofUnder(g, right) {
					t.Errorf("seed %d: both gorillas on building %d", seed, roofUnder(g, left))
				}
			}
		})
	}
}

// roofUnder returns the index of the building spanning x, or -1.
func roofUnder(g *Game, x float64) int {
	for i, b := range g.Buildings() {
		if x >= b.Left() && x < b.Left()+b.Width() {
			return i
		}
	}
	return -1
}

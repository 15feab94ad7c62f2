package gorillas

import (
	"math"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// GorillasSnapshot is everything a client needs to draw the game. It is
// sent to both players every tick and streamed to spectators as JSON.
type GorillasSnapshot struct {
	Tick      uint64          `json:"tick"`
	World     World           `json:"world"`
	Phase     Phase           `json:"phase"`
	Current   int             `json:"current"`
	Round     int             `json:"round"`
	Throws    int             `json:"throws"`
	Message   string          `json:"message"`
	Names     [2]string       `json:"names"`
	Scores    [2]int          `json:"scores"`
	Winner    int             `json:"winner"` // round winner index, -1 while undecided
	MatchOver bool            `json:"match_over"`
	Paused    bool            `json:"paused"`
	Layout    WindowLayout    `json:"layout"`
	Buildings []BuildingState `json:"buildings"`
	Gorillas  [2]GorillaState `json:"gorillas"`
	Craters   []CraterState   `json:"craters"`
	Explosion *ExplosionState `json:"explosion,omitempty"`
}

// BuildingState is a building with its windows as a '1'/'0' lit mask.
type BuildingState struct {
	X      float64    `json:"x"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Color  core.Color `json:"color"`
	Lit    string     `json:"lit"`
}

// GorillaState is a player and its banana.
type GorillaState struct {
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Visible bool        `json:"visible"`
	Pose    Pose        `json:"pose"`
	Speed   int         `json:"speed"`
	Angle   int         `json:"angle"`
	Banana  BananaState `json:"banana"`
}

// BananaState is a banana position.
type BananaState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
	Moving  bool    `json:"moving"`
	Spin    int     `json:"spin"`
}

// CraterState is a finished explosion.
type CraterState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// ExplosionState is the explosion being animated.
type ExplosionState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Step   int     `json:"step"`
	Steps  int     `json:"steps"`
	Rate   float64 `json:"rate"`
	Radius float64 `json:"radius"`
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (GorillasSnapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = GorillasSnapshot{}

// Snapshot returns the current game state.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.snapshot()
}

func (g *Game) snapshot() GorillasSnapshot {
	snap := GorillasSnapshot{
		Tick:      uint64(max(0, g.tickCount)), //nolint:gosec // tickCount is never negative
		World:     g.world,
		Phase:     g.phase,
		Current:   g.current,
		Round:     g.round,
		Throws:    g.throws,
		Message:   g.message,
		Scores:    g.scores,
		Winner:    g.winner,
		MatchOver: g.matchOver,
		Paused:    g.paused,
		Layout:    g.skyline.Layout,
	}

	snap.Buildings = make([]BuildingState, len(g.buildings))
	for i, b := range g.buildings {
		snap.Buildings[i] = BuildingState{
			X:      b.Left(),
			Width:  b.Width(),
			Height: b.Height(),
			Color:  b.Color(),
			Lit:    b.litMask(),
		}
	}

	for i, p := range g.players {
		if p == nil {
			continue
		}
		snap.Names[i] = p.Name()
		b := p.Banana()
		snap.Gorillas[i] = GorillaState{
			X:       p.x,
			Y:       p.y,
			Visible: p.visible,
			Pose:    p.pose,
			Speed:   b.speed,
			Angle:   b.angle,
			Banana: BananaState{
				X:       b.x,
				Y:       b.y,
				Visible: b.visible,
				Moving:  b.moving,
				Spin:    b.spin,
			},
		}
	}

	snap.Craters = make([]CraterState, len(g.craters))
	for i, c := range g.craters {
		snap.Craters[i] = CraterState{X: c.x, Y: c.y, Radius: c.radius}
	}

	if e := g.explosion; e != nil {
		snap.Explosion = &ExplosionState{
			X:      e.x,
			Y:      e.y,
			Step:   e.step,
			Steps:  e.steps,
			Rate:   e.rate,
			Radius: e.radius,
		}
	}
	return snap
}

// ApplySnapshot replaces the drawable state with a server snapshot. The
// game must have been Reset first. Window dimming and the CPU do not run
// on a snapshot-driven game.
func (g *Game) ApplySnapshot(snap GorillasSnapshot) {
	g.tickCount = int(min(snap.Tick, math.MaxInt)) //nolint:gosec // clamped to max int
	g.world = snap.World
	g.phase = snap.Phase
	g.current = snap.Current
	g.round = snap.Round
	g.throws = snap.Throws
	g.message = snap.Message
	g.scores = snap.Scores
	g.winner = snap.Winner
	g.matchOver = snap.MatchOver
	g.paused = snap.Paused
	g.skyline.Layout = snap.Layout

	if !g.sameSkyline(snap.Buildings) {
		g.buildings = make([]*Building, len(snap.Buildings))
		for i, bs := range snap.Buildings {
			g.buildings[i] = NewBuilding(bs.X, g.world.Height, bs.Width, bs.Height, bs.Color, snap.Layout)
		}
	}
	for i, bs := range snap.Buildings {
		g.buildings[i].setLitMask(bs.Lit)
	}

	for i, gs := range snap.Gorillas {
		p := g.players[i]
		if p == nil {
			continue
		}
		p.SetName(snap.Names[i])
		p.x, p.y = gs.X, gs.Y
		p.visible = gs.Visible
		p.pose = gs.Pose
		b := p.Banana()
		b.world = g.world
		b.speed, b.angle = gs.Speed, gs.Angle
		b.x, b.y = gs.Banana.X, gs.Banana.Y
		b.visible = gs.Banana.Visible
		b.moving = gs.Banana.Moving
		b.spin = wrapSpin(gs.Banana.Spin)
	}

	g.craters = make([]*Explosion, len(snap.Craters))
	for i, cs := range snap.Craters {
		g.craters[i] = &Explosion{x: cs.X, y: cs.Y, radius: cs.Radius, rate: cs.Radius, steps: 1, step: 2}
	}

	g.explosion = nil
	if es := snap.Explosion; es != nil {
		g.explosion = &Explosion{
			x:      es.X,
			y:      es.Y,
			step:   es.Step,
			steps:  max(1, es.Steps),
			rate:   es.Rate,
			radius: es.Radius,
		}
	}
}

func (g *Game) sameSkyline(states []BuildingState) bool {
	if len(states) != len(g.buildings) {
		return false
	}
	for i, bs := range states {
		b := g.buildings[i]
		if b.Left() != bs.X || b.Width() != bs.Width || b.Height() != bs.Height ||
			b.Color() != bs.Color || b.Baseline() != g.world.Height {
			return false
		}
	}
	return true
}

// wrapSpin maps any frame counter onto a banana frame.
func wrapSpin(s int) int {
	n := len(bananaFrames)
	return ((s % n) + n) % n
}

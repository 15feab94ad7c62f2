package gorillas

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Upper bound on simulated flight length.
const maxSimTicks = 2000

// aimPlan is the angle and speed the CPU is dialing in.
type aimPlan struct {
	speed int
	angle int
}

// cpuPlayer plays player 2 in vs CPU games. It finds a throw by simulating
// bananas against the current skyline, spoils it by an aim error that
// shrinks with difficulty and with every throw of the round, then dials the
// throw in one step per tick through the same actions a human uses.
type cpuPlayer struct {
	cfg        config.CPUConfig
	physics    config.PhysicsConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	thinkBase  int

	wait  int
	plan  *aimPlan
	shots int

	// last dialed values, to notice an adjustment the banana refused
	adjusted  bool
	lastSpeed int
	lastAngle int
}

func newCPUPlayer(cfg config.GorillasConfig, rng *rand.Rand) *cpuPlayer {
	return &cpuPlayer{
		cfg:        cfg.CPU,
		physics:    cfg.Physics,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		rng:        rng,
		thinkBase:  max(1, cfg.Ticks(cfg.CPU.ThinkMS)),
	}
}

func (c *cpuPlayer) newRound() {
	c.wait = 0
	c.plan = nil
	c.shots = 0
	c.adjusted = false
}

// Decide returns the CPU's input for one idle tick.
func (c *cpuPlayer) Decide(g *Game) core.InputFrame {
	frame := core.NewInputFrame()
	if c.plan == nil {
		if c.wait == 0 {
			c.wait = c.difficulty.ThinkTicks(c.thinkBase, g.scores[1-g.current], g.tickCount)
		}
		c.wait--
		if c.wait > 0 {
			return frame
		}
		p := c.aim(g)
		c.plan = &p
	}

	b := g.players[g.current].Banana()
	if c.adjusted && b.Speed() == c.lastSpeed && b.Angle() == c.lastAngle {
		c.plan.speed, c.plan.angle = b.Speed(), b.Angle()
	}
	c.adjusted = true
	c.lastSpeed, c.lastAngle = b.Speed(), b.Angle()

	switch {
	case b.Angle() < c.plan.angle:
		frame.Set(core.ActionUp)
	case b.Angle() > c.plan.angle:
		frame.Set(core.ActionDown)
	case b.Speed() < c.plan.speed:
		frame.Set(core.ActionRight)
	case b.Speed() > c.plan.speed:
		frame.Set(core.ActionLeft)
	default:
		frame.Set(core.ActionThrow)
		c.plan = nil
		c.adjusted = false
		c.shots++
	}
	return frame
}

// aim searches reachable angle/speed pairs for the throw landing closest
// to the opponent and then applies the aim error.
func (c *cpuPlayer) aim(g *Game) aimPlan {
	me := g.players[g.current]
	foe := g.players[1-g.current]
	b := me.Banana()

	angleStep := max(1, c.physics.AngleStep)
	speedStep := max(1, c.physics.SpeedStep)
	best := aimPlan{speed: b.Speed(), angle: b.Angle()}
	bestMiss := math.Inf(1)

	for angle := reachable(b.Angle(), c.cfg.AngleMin, angleStep, c.cfg.AngleMin, c.cfg.AngleMax); angle <= c.cfg.AngleMax; angle += angleStep {
		for speed := reachable(b.Speed(), c.cfg.SpeedMin, speedStep, c.cfg.SpeedMin, c.cfg.SpeedMax); speed <= c.cfg.SpeedMax; speed += speedStep {
			miss := g.simulateThrow(b, foe, speed, angle)
			if miss < bestMiss {
				bestMiss = miss
				best = aimPlan{speed: speed, angle: angle}
			}
		}
	}

	spread := c.difficulty.AimError(c.cfg.MaxSpeedError, g.scores[1-g.current], g.tickCount)
	spread *= math.Pow(c.cfg.Learning, float64(c.shots))
	best.speed += int(math.Round(c.rng.NormFloat64() * spread))
	if c.cfg.MaxSpeedError > 0 && c.rng.Float64() < c.cfg.AngleSlip*spread/c.cfg.MaxSpeedError {
		if c.rng.Intn(2) == 0 {
			best.angle += angleStep
		} else {
			best.angle -= angleStep
		}
	}

	best.speed = reachable(b.Speed(), best.speed, speedStep, 0, c.physics.MaxSpeed)
	best.angle = reachable(b.Angle(), best.angle, angleStep, c.physics.MinAngle, c.physics.MaxAngle)
	return best
}

// reachable returns the value closest to target that can be dialed from
// cur in steps of step while staying within [lo, hi].
func reachable(cur, target, step, lo, hi int) int {
	k := int(math.Round(float64(target-cur) / float64(step)))
	v := cur + k*step
	for v > hi {
		v -= step
	}
	for v < lo {
		v += step
	}
	return v
}

// simulateThrow flies a copy of b and returns how far from foe it lands;
// zero means a hit. Throws that leave the world are penalized by the world
// width so any impact ranks above them.
func (g *Game) simulateThrow(b *Banana, foe *Gorilla, speed, angle int) float64 {
	sim := b.clone()
	sim.SetSpeed(speed)
	sim.SetAngle(angle)
	sim.Reset()
	sim.Start()

	fx, fy := foe.Position()
	for i := 0; i < maxSimTicks && sim.IsMoving(); i++ {
		sim.Update()
		if sim.Hits(foe) {
			return 0
		}
		for _, bl := range g.buildings {
			if sim.HitsWhere(bl, g.InCrater) {
				x, y := sim.Position()
				return core.Dist(x, y, fx, fy)
			}
		}
	}
	x, y := sim.Position()
	return core.Dist(x, y, fx, fy) + g.world.Width
}

package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second; 0 lets the game choose
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 0,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickInterval returns the duration of one simulation tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// TickRater is implemented by games that run at their own pace.
type TickRater interface {
	TickRate() int
}

// ResolveTickRate fills a zero TickRate from the game's preference, then 60.
func ResolveTickRate(cfg RuntimeConfig, game any) RuntimeConfig {
	if cfg.TickRate > 0 {
		return cfg
	}
	if tr, ok := game.(TickRater); ok && tr.TickRate() > 0 {
		cfg.TickRate = tr.TickRate()
		return cfg
	}
	cfg.TickRate = 60
	return cfg
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score (player 1 rounds won)
	GameOver bool // Whether the round has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}

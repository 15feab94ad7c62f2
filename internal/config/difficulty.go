package config

// DifficultyManager scales the CPU opponent's accuracy with score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// AimError returns the aim error for the current level.
// At level 1 the base error shrinks by aim_error_reduction.
func (d *DifficultyManager) AimError(base float64, score int, ticks int) float64 {
	level := d.Level(score, ticks)
	return max(0, base*(1.0-level*d.cfg.Scaling.AimErrorReduction))
}

// ThinkTicks returns how long the CPU waits before dialing a throw.
func (d *DifficultyManager) ThinkTicks(base int, score int, ticks int) int {
	level := d.Level(score, ticks)
	reduction := int(level * d.cfg.Scaling.ThinkReduction * float64(base))
	return max(1, base-reduction)
}

func clampF(val, lo, hi float64) float64 {
	return max(lo, min(hi, val))
}

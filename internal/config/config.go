// Package config provides YAML-based game configuration loading and
// difficulty management for gorillas.
package config

// GorillasConfig contains all tunables of the game.
type GorillasConfig struct {
	Display    DisplayConfig    `yaml:"display"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Banana     BananaConfig     `yaml:"banana"`
	Gorilla    GorillaConfig    `yaml:"gorilla"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Buildings  BuildingsConfig  `yaml:"buildings"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	CPU        CPUConfig        `yaml:"cpu"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// DisplayConfig maps the pixel world onto terminal cells and the window.
type DisplayConfig struct {
	CellWidth    float64 `yaml:"cell_width"`  // world pixels per terminal column
	CellHeight   float64 `yaml:"cell_height"` // world pixels per terminal row
	WindowWidth  int     `yaml:"window_width"`
	WindowHeight int     `yaml:"window_height"`
}

// PhysicsConfig defines the ballistic model and the throw controls.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`
	MaxSpeed      int     `yaml:"max_speed"`
	MinAngle      int     `yaml:"min_angle"`
	MaxAngle      int     `yaml:"max_angle"`
	DefaultSpeed  int     `yaml:"default_speed"`
	DefaultAngle  int     `yaml:"default_angle"`
	SpeedStep     int     `yaml:"speed_step"`
	AngleStep     int     `yaml:"angle_step"`
	UpdateDelayMS int     `yaml:"update_delay_ms"`
}

// BananaConfig defines the projectile sprite.
type BananaConfig struct {
	Size         float64 `yaml:"size"`          // sprite size, also the hit sampling offset
	LaunchHeight float64 `yaml:"launch_height"` // distance above the gorilla's head
}

// GorillaConfig defines the player sprite.
type GorillaConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	ThrowPoseTicks int     `yaml:"throw_pose_ticks"`
	EdgeBuildings  int     `yaml:"edge_buildings"` // how far from the edge a gorilla may stand
}

// ExplosionConfig defines the explosion animation and the crater size.
type ExplosionConfig struct {
	ExpansionRate float64 `yaml:"expansion_rate"`
	Steps         int     `yaml:"steps"`
}

// BuildingsConfig defines skyline generation.
type BuildingsConfig struct {
	RoomWidth        float64  `yaml:"room_width"`
	FloorHeight      float64  `yaml:"floor_height"`
	WindowWidth      float64  `yaml:"window_width"`
	WindowHeight     float64  `yaml:"window_height"`
	MinRooms         int      `yaml:"min_rooms"`
	MaxRooms         int      `yaml:"max_rooms"`
	MinHeight        float64  `yaml:"min_height"` // fraction of world height
	MaxHeight        float64  `yaml:"max_height"`
	LightProbability float64  `yaml:"light_probability"`
	DimRate          float64  `yaml:"dim_rate"`
	Colors           []string `yaml:"colors"`
}

// GameplayConfig defines match rules.
type GameplayConfig struct {
	PlayerNames      []string `yaml:"player_names"`
	CPUName          string   `yaml:"cpu_name"`
	WinScore         int      `yaml:"win_score"` // rounds to win a local match, 0 = endless
	OnlineWinScore   int      `yaml:"online_win_score"`
	RoundOverDelayMS int      `yaml:"round_over_delay_ms"`
}

// CPUConfig defines the computer opponent.
type CPUConfig struct {
	ThinkMS       int     `yaml:"think_ms"`
	MaxSpeedError float64 `yaml:"max_speed_error"` // speed units at the lowest level
	AngleSlip     float64 `yaml:"angle_slip"`      // chance of a one-step angle slip at the lowest level
	Learning      float64 `yaml:"learning"`        // error factor kept after each throw in a round
	SpeedMin      int     `yaml:"speed_min"`
	SpeedMax      int     `yaml:"speed_max"`
	AngleMin      int     `yaml:"angle_min"`
	AngleMax      int     `yaml:"angle_max"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	AimErrorReduction float64 `yaml:"aim_error_reduction"` // share of aim error removed at max difficulty
	ThinkReduction    float64 `yaml:"think_reduction"`     // share of think time removed at max difficulty
}

// TickRate returns the simulation rate implied by update_delay_ms.
func (c GorillasConfig) TickRate() int {
	if c.Physics.UpdateDelayMS <= 0 {
		return 60
	}
	return max(1, 1000/c.Physics.UpdateDelayMS)
}

// Ticks converts a duration in milliseconds to simulation ticks.
func (c GorillasConfig) Ticks(ms int) int {
	if c.Physics.UpdateDelayMS <= 0 {
		return ms * 60 / 1000
	}
	return ms / c.Physics.UpdateDelayMS
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the difficulty presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (DifficultyPreset, bool) {
	for _, p := range Presets {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

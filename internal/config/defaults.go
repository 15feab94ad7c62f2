package config

import (
	_ "embed"
)

//go:embed defaults/gorillas.yaml
var defaultGorillasYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGorillasYAML
}

// DefaultGorillasConfig returns the built-in configuration. It matches the
// embedded YAML and is used when that cannot be parsed.
func DefaultGorillasConfig() GorillasConfig {
	return GorillasConfig{
		Display: DisplayConfig{
			CellWidth:    10,
			CellHeight:   20,
			WindowWidth:  800,
			WindowHeight: 500,
		},
		Physics: PhysicsConfig{
			Gravity:       1.0,
			MaxSpeed:      99,
			MinAngle:      -45,
			MaxAngle:      90,
			DefaultSpeed:  20,
			DefaultAngle:  45,
			SpeedStep:     1,
			AngleStep:     5,
			UpdateDelayMS: 60,
		},
		Banana: BananaConfig{
			Size:         10,
			LaunchHeight: 10,
		},
		Gorilla: GorillaConfig{
			Width:          30,
			Height:         40,
			ThrowPoseTicks: 4,
			EdgeBuildings:  2,
		},
		Explosion: ExplosionConfig{
			ExpansionRate: 5,
			Steps:         10,
		},
		Buildings: BuildingsConfig{
			RoomWidth:        16,
			FloorHeight:      32,
			WindowWidth:      8,
			WindowHeight:     16,
			MinRooms:         5,
			MaxRooms:         9,
			MinHeight:        0.2,
			MaxHeight:        0.7,
			LightProbability: 0.8,
			DimRate:          0.02,
			Colors:           []string{"red", "cyan", "gray"},
		},
		Gameplay: GameplayConfig{
			PlayerNames:      []string{"Gorilla 1", "Gorilla 2"},
			CPUName:          "CPU",
			WinScore:         0,
			OnlineWinScore:   3,
			RoundOverDelayMS: 3000,
		},
		CPU: CPUConfig{
			ThinkMS:       900,
			MaxSpeedError: 8,
			AngleSlip:     0.4,
			Learning:      0.6,
			SpeedMin:      10,
			SpeedMax:      99,
			AngleMin:      20,
			AngleMax:      80,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 5,
			},
			Scaling: ScalingConfig{
				AimErrorReduction: 0.9,
				ThinkReduction:    0.5,
			},
		},
	}
}

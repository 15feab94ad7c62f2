package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const configFile = "gorillas.yaml"

// LoadGorillas loads the game configuration.
// Search order: customPath -> ~/.gorillas/configs/gorillas.yaml -> ./configs/gorillas.yaml -> embedded default.
// Files are applied on top of the defaults, so they may set only some keys.
// A broken custom path is an error; broken files found by search are skipped.
func LoadGorillas(customPath string) (GorillasConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return DefaultGorillasConfig(), err
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", configFile)); err == nil {
		return cfg, nil
	}

	cfg := DefaultGorillasConfig()
	if err := yaml.Unmarshal(defaultGorillasYAML, &cfg); err != nil {
		return DefaultGorillasConfig(), nil
	}
	return cfg, nil
}

func loadFile(path string) (GorillasConfig, error) {
	cfg := DefaultGorillasConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SearchPaths lists the files LoadGorillas tries when no custom path is given.
func SearchPaths() []string {
	var paths []string
	if p := userConfigPath(configFile); p != "" {
		paths = append(paths, p)
	}
	return append(paths, filepath.Join("configs", configFile))
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gorillas", "configs", filename)
}

// ApplyGorillasPreset tunes the CPU opponent for a difficulty preset.
func ApplyGorillasPreset(cfg *GorillasConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.CPU.ThinkMS = 1500
		cfg.CPU.MaxSpeedError *= 1.5
	case DifficultyHard:
		cfg.CPU.ThinkMS = 500
		cfg.CPU.Learning = 0.4
	}
}

// Marshal renders the configuration as YAML.
func (c GorillasConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// BuildingColors resolves the configured skyline palette.
func (c GorillasConfig) BuildingColors() ([]core.Color, error) {
	colors := make([]core.Color, 0, len(c.Buildings.Colors))
	for _, name := range c.Buildings.Colors {
		col, ok := core.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown building color %q", ErrInvalidConfig, name)
		}
		colors = append(colors, col)
	}
	return colors, nil
}

// Validate reports every value the game cannot run with.
func (c GorillasConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	p := c.Physics
	check(c.Display.CellWidth > 0 && c.Display.CellHeight > 0, "display cell size must be positive")
	check(p.Gravity > 0, "physics.gravity must be positive, got %v", p.Gravity)
	check(p.MaxSpeed > 0, "physics.max_speed must be positive, got %d", p.MaxSpeed)
	check(p.MinAngle < p.MaxAngle, "physics.min_angle %d must be below max_angle %d", p.MinAngle, p.MaxAngle)
	check(p.DefaultSpeed >= 0 && p.DefaultSpeed <= p.MaxSpeed, "physics.default_speed %d out of range", p.DefaultSpeed)
	check(p.DefaultAngle >= p.MinAngle && p.DefaultAngle <= p.MaxAngle, "physics.default_angle %d out of range", p.DefaultAngle)
	check(p.SpeedStep > 0 && p.AngleStep > 0, "physics steps must be positive")
	check(p.UpdateDelayMS > 0, "physics.update_delay_ms must be positive")

	check(c.Banana.Size > 0, "banana.size must be positive")
	check(c.Gorilla.Width > 0 && c.Gorilla.Height > 0, "gorilla size must be positive")
	check(c.Gorilla.EdgeBuildings >= 0, "gorilla.edge_buildings must not be negative")
	check(c.Explosion.ExpansionRate > 0, "explosion.expansion_rate must be positive")
	check(c.Explosion.Steps > 0, "explosion.steps must be positive")

	b := c.Buildings
	check(b.RoomWidth > 0 && b.FloorHeight > 0, "buildings room and floor size must be positive")
	check(b.WindowWidth > 0 && b.WindowHeight > 0, "buildings window size must be positive")
	check(b.MinRooms > 0 && b.MinRooms <= b.MaxRooms, "buildings rooms range [%d, %d] invalid", b.MinRooms, b.MaxRooms)
	check(b.MinHeight >= 0 && b.MinHeight < b.MaxHeight && b.MaxHeight <= 1,
		"buildings height range [%v, %v] invalid", b.MinHeight, b.MaxHeight)
	check(b.LightProbability >= 0 && b.LightProbability <= 1, "buildings.light_probability must be in [0, 1]")
	check(b.DimRate >= 0 && b.DimRate <= 1, "buildings.dim_rate must be in [0, 1]")
	check(len(b.Colors) >= 2, "buildings.colors needs at least 2 entries, got %d", len(b.Colors))
	if _, err := c.BuildingColors(); err != nil {
		errs = append(errs, err)
	}

	g := c.Gameplay
	check(len(g.PlayerNames) == 2, "gameplay.player_names needs exactly 2 names")
	check(g.WinScore >= 0 && g.OnlineWinScore >= 0, "gameplay win scores must not be negative")

	cpu := c.CPU
	check(cpu.SpeedMin >= 0 && cpu.SpeedMin <= cpu.SpeedMax && cpu.SpeedMax <= p.MaxSpeed,
		"cpu speed range [%d, %d] invalid", cpu.SpeedMin, cpu.SpeedMax)
	check(cpu.AngleMin >= p.MinAngle && cpu.AngleMin <= cpu.AngleMax && cpu.AngleMax <= p.MaxAngle,
		"cpu angle range [%d, %d] invalid", cpu.AngleMin, cpu.AngleMax)

	return errors.Join(errs...)
}

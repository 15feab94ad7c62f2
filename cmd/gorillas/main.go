// gorillas is the banana-throwing artillery duel, played in the terminal,
// in a window or over SSH.
//
// Usage:
//
//	gorillas list              - List game modes
//	gorillas play [mode]       - Play a match in the terminal
//	gorillas menu              - Menu with setup, scores and all modes
//	gorillas window [mode]     - Play a match in a desktop window
//	gorillas serve             - Start SSH server for remote and online play
//	gorillas scores [mode]     - Show standings
//	gorillas config            - Show or check the game configuration
//
// Global flags:
//
//	--fps <rate>          - Override the tick rate (default: from config)
//	--seed <value>        - Set RNG seed for reproducible skylines
//	--db <path>           - Set database path (default: ~/.gorillas/gorillas.db)
//	--config <path>       - Use a custom game config YAML
//	--difficulty <preset> - CPU difficulty: easy, normal, hard, fixed
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagVerbose    bool

	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gorillas",
	Short: "Gorillas - throw exploding bananas across the city skyline",
	Long: `Gorillas is the classic artillery duel: two gorillas on a city skyline
take turns throwing exploding bananas at each other. Set the angle and
the power, mind the gravity, and topple your rival.

Available commands:
  list     - Show all game modes
  play     - Play a match in the terminal
  menu     - Interactive menu with match setup and scores
  window   - Play a match in a desktop window
  serve    - Start SSH server for remote and online play
  scores   - View standings
  config   - Show or check the game configuration

Examples:
  gorillas play
  gorillas play gorillas_cpu --difficulty hard --first-to 3
  gorillas menu
  gorillas window --scale 1.5
  gorillas serve --ssh :2222 --spectate :8080
  gorillas scores`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "CPU difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "gorillas",
		})
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	}

	if flagConfig != "" {
		if _, err := config.LoadGorillas(flagConfig); err != nil {
			return err
		}
		gorillas.SetConfigPath(flagConfig)
	}

	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		gorillas.SetDifficultyPreset(preset)
	}
	return nil
}

// runtimeConfig builds the runtime config from the global flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database; games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/platform/gui"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
)

var (
	flagScale   float64
	flagColumns int
	flagRows    int
)

var windowCmd = &cobra.Command{
	Use:   "window [mode]",
	Short: "Play a match in a desktop window",
	Long: `Play a match in a desktop window instead of the terminal. The rules,
controls and configuration are the same as in 'gorillas play'; Q or
closing the window ends the match.

The world is laid out as on a terminal of --cols x --rows cells.

Examples:
  gorillas window
  gorillas window gorillas_cpu --scale 1.5
  gorillas window --cols 120 --rows 40`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().Float64Var(&flagScale, "scale", 1, "Window pixels per world pixel")
	windowCmd.Flags().IntVar(&flagColumns, "cols", 80, "World width in terminal columns")
	windowCmd.Flags().IntVar(&flagRows, "rows", 24, "World height in terminal rows")
	windowCmd.Flags().IntVar(&flagFirstTo, "first-to", -1, "Rounds needed to win the match (0 = endless, -1 = from config)")
	windowCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	windowCmd.Flags().Float64Var(&flagVolume, "volume", 0.7, "Sound volume from 0 to 1")
}

func runWindow(_ *cobra.Command, args []string) error {
	gameID, err := modeArg(args)
	if err != nil {
		return err
	}
	gorillas.SetWinScore(flagFirstTo)

	created, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	game, ok := created.(*gorillas.Game)
	if !ok {
		return fmt.Errorf("mode %q cannot be played in a window", gameID)
	}

	opts := gui.Options{
		Store:  openStore(),
		Prefs:  openPrefs(),
		Sound:  openSound(),
		Logger: logger,
		Scale:  flagScale,
	}
	defer func() {
		if opts.Store != nil {
			opts.Store.Close()
		}
		if opts.Sound != nil {
			opts.Sound.Cleanup()
		}
	}()

	return gui.Run(game, runtimeConfig(flagColumns, flagRows), opts)
}

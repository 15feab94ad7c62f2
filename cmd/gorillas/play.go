package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-gorillas/internal/audio"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/platform/tui"
	"github.com/vovakirdan/tui-gorillas/internal/prefs"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
)

var (
	flagFirstTo int
	flagSound   bool
	flagVolume  float64
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a match in the terminal",
	Long: `Start a match of the given mode (default: gorillas, two players at one
keyboard). Use gorillas_cpu to play against the computer.

Controls:
  Up/Down, W/S     - Throw angle
  Left/Right, -/+  - Throw power
  Space/Enter      - Throw
  P                - Pause
  R/Enter          - Next round (after a hit)
  B/Esc            - Quit (after a hit or while paused)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options (vs CPU):
  easy   - Wild throws, slowly getting better
  normal - Decent aim, getting better as it falls behind
  hard   - Sharp aim from the first throw
  fixed  - No progression, stays at config's initial level

Examples:
  gorillas play
  gorillas play gorillas_cpu --difficulty hard
  gorillas play --first-to 3 --sound
  gorillas play --config ./my-gorillas.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagFirstTo, "first-to", -1, "Rounds needed to win the match (0 = endless, -1 = from config)")
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.7, "Sound volume from 0 to 1")
}

// modeArg returns the requested game mode, checking that it exists.
func modeArg(args []string) (string, error) {
	gameID := gorillas.IDHotseat
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return "", fmt.Errorf("unknown mode %q; run 'gorillas list' to see available modes", gameID)
	}
	return gameID, nil
}

// openPrefs opens the throw settings store, falling back to memory.
func openPrefs() *prefs.Store {
	store, err := prefs.Open(prefs.AppName)
	if err != nil {
		logger.Warn("throw settings will not be remembered", "err", err)
		return prefs.NewStore(nil)
	}
	return store
}

// openSound starts audio output when --sound is set. It returns nil when
// sound is off or unavailable.
func openSound() *audio.SoundManager {
	if !flagSound {
		return nil
	}
	sm := audio.NewSoundManager()
	if err := sm.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: sound disabled: %v\n", err)
		logger.Warn("sound disabled", "err", err)
		return nil
	}
	sm.SetVolume(flagVolume)
	return sm
}

func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID, err := modeArg(args)
	if err != nil {
		return err
	}
	gorillas.SetWinScore(flagFirstTo)

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	svc := tui.Services{
		Store:  openStore(),
		Prefs:  openPrefs(),
		Sound:  openSound(),
		Logger: logger,
	}
	defer func() {
		if svc.Store != nil {
			svc.Store.Close()
		}
		if svc.Sound != nil {
			svc.Sound.Cleanup()
		}
	}()

	return tui.Run(game, svc, runtimeConfig(terminalSize()))
}

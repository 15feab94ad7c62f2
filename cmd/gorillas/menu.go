package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gorillas/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start gorillas with an interactive menu",
	Long: `Start gorillas in interactive menu mode.

Pick a mode, choose the match length (and the CPU difficulty), play, and
come back to the menu when done. Tab opens the standings.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change a setting
  Enter/Space  - Select
  Tab          - Standings
  Q            - Quit

Examples:
  gorillas menu
  gorillas menu --sound
  gorillas menu --db ./gorillas.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	menuCmd.Flags().Float64Var(&flagVolume, "volume", 0.7, "Sound volume from 0 to 1")
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	return tui.RunSession(svc, runtimeConfig(terminalSize()))
}

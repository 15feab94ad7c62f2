package gui

import (
	"testing"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
	"github.com/vovakirdan/tui-gorillas/internal/prefs"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42}
}

func TestLeaves(t *testing.T) {
	tests := []struct {
		name string
		in   core.InputFrame
		st   core.GameState
		want bool
	}{
		{"quit mid round", core.FrameOf(core.ActionQuit), core.GameState{}, true},
		{"back mid round", core.FrameOf(core.ActionBack), core.GameState{}, false},
		{"back while paused", core.FrameOf(core.ActionBack), core.GameState{Paused: true}, false},
		{"back after the round", core.FrameOf(core.ActionBack), core.GameState{GameOver: true}, true},
		{"no input after the round", core.NewInputFrame(), core.GameState{GameOver: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leaves(tt.in, tt.st); got != tt.want {
				t.Errorf("leaves = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowThrowSettings(t *testing.T) {
	tests := []struct {
		name   string
		mode   multiplayer.MatchMode
		loaded [2]bool // whether each seat picks up its remembered throw
	}{
		{"hotseat", multiplayer.MatchModeHotseat, [2]bool{true, true}},
		{"versus cpu", multiplayer.MatchModeVsCPU, [2]bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := prefs.NewStore(nil)
			for _, name := range []string{"Gorilla 1", "Gorilla 2"} {
				if err := store.Save(name, prefs.ThrowSettings{Speed: 33, Angle: 60}); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			game := gorillas.NewWithConfig(tt.mode, config.DefaultGorillasConfig())
			win := NewWindow(game, testRuntime(), Options{Prefs: store})

			for i, id := range []core.PlayerID{core.Player1, core.Player2} {
				speed, angle := game.ThrowSettings(id)
				got := speed == 33 && angle == 60
				if got != tt.loaded[i] {
					t.Errorf("%v throw = %d/%d, loaded %v, want %v", id, speed, angle, got, tt.loaded[i])
				}
			}

			game.SetThrowSettings(core.Player1, 25, 30)
			game.SetThrowSettings(core.Player2, 25, 30)
			win.handleEvents([]core.Event{{Kind: core.EventRoundOver, Winner: "Gorilla 1", Loser: "Gorilla 2"}})

			got, found, err := store.Load("Gorilla 1")
			if err != nil || !found {
				t.Fatalf("Load = %v, %v, %v", got, found, err)
			}
			if got.Speed != 25 || got.Angle != 30 {
				t.Errorf("player 1 saved %+v, want speed 25 angle 30", got)
			}

			got, _, err = store.Load("Gorilla 2")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			human := tt.mode != multiplayer.MatchModeVsCPU
			if saved := got.Speed == 25 && got.Angle == 30; saved != human {
				t.Errorf("player 2 saved %+v, human %v", got, human)
			}
		})
	}
}

func TestWindowSavesOnExit(t *testing.T) {
	store := prefs.NewStore(nil)
	game := gorillas.NewWithConfig(multiplayer.MatchModeHotseat, config.DefaultGorillasConfig())
	win := NewWindow(game, testRuntime(), Options{Prefs: store})

	game.SetThrowSettings(core.Player2, 40, 70)
	win.savePrefs()

	got, found, err := store.Load("Gorilla 2")
	if err != nil || !found {
		t.Fatalf("Load = %v, %v, %v", got, found, err)
	}
	if got.Speed != 40 || got.Angle != 70 {
		t.Errorf("saved %+v, want speed 40 angle 70", got)
	}
}

package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// Held aiming keys repeat after repeatDelay ticks, every repeatEvery ticks.
const (
	repeatDelay = 6
	repeatEvery = 2
)

// aimKeys adjust the throw and repeat while held.
var aimKeys = map[ebiten.Key]core.Action{
	ebiten.KeyArrowUp:    core.ActionUp,
	ebiten.KeyW:          core.ActionUp,
	ebiten.KeyArrowDown:  core.ActionDown,
	ebiten.KeyS:          core.ActionDown,
	ebiten.KeyArrowLeft:  core.ActionLeft,
	ebiten.KeyA:          core.ActionLeft,
	ebiten.KeyMinus:      core.ActionLeft,
	ebiten.KeyArrowRight: core.ActionRight,
	ebiten.KeyD:          core.ActionRight,
	ebiten.KeyEqual:      core.ActionRight,
}

// pressKeys act once per press.
var pressKeys = map[ebiten.Key]core.Action{
	ebiten.KeySpace:  core.ActionThrow,
	ebiten.KeyEnter:  core.ActionConfirm,
	ebiten.KeyP:      core.ActionPause,
	ebiten.KeyR:      core.ActionRestart,
	ebiten.KeyB:      core.ActionBack,
	ebiten.KeyEscape: core.ActionBack,
	ebiten.KeyQ:      core.ActionQuit,
}

// repeats reports whether a key held for d ticks fires this tick.
func repeats(d int) bool {
	if d == 1 {
		return true
	}
	return d > repeatDelay && (d-repeatDelay)%repeatEvery == 0
}

// readInput collects this tick's actions from the keyboard.
func readInput() core.InputFrame {
	frame := core.NewInputFrame()
	for k, a := range aimKeys {
		if repeats(inpututil.KeyPressDuration(k)) {
			frame.Set(a)
		}
	}
	for k, a := range pressKeys {
		if inpututil.IsKeyJustPressed(k) {
			frame.Set(a)
		}
	}
	return frame
}

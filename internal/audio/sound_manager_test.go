package audio

import (
	"testing"
)

func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayThrow()
	sm.PlayExplosion()
	sm.PlayVictory()
	sm.Cleanup()

	if sm.Enabled() {
		t.Error("manager should not be enabled before Initialize")
	}
	if sm.mixer.Len() != 0 {
		t.Errorf("mixer has %d streamers, want 0", sm.mixer.Len())
	}
}

func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager()

	// Speaker initialization fails on machines without an audio device
	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("second Initialize should be a no-op, got %v", err)
	}

	sm.PlayThrow()
	sm.Cleanup()
	if sm.Enabled() {
		t.Error("manager still enabled after Cleanup")
	}
}

func TestSoundManagerSetVolume(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}

	sm := NewSoundManager()
	for _, tt := range tests {
		sm.SetVolume(tt.in)
		if sm.volume != tt.want {
			t.Errorf("SetVolume(%v) stored %v, want %v", tt.in, sm.volume, tt.want)
		}
	}
}

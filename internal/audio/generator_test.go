package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain reads s to the end and returns every left-channel sample.
func drain(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
}

func TestGeneratorsAreFinite(t *testing.T) {
	tests := []struct {
		name   string
		stream beep.Streamer
		want   int
	}{
		{"sweep", NewSweepGenerator(sampleRate, 300, 900, 250*time.Millisecond), sampleRate.N(250 * time.Millisecond)},
		{"boom", NewBoomGenerator(sampleRate, 700*time.Millisecond, 1), sampleRate.N(700 * time.Millisecond)},
		{"tone", NewToneGenerator(sampleRate, 440, 100*time.Millisecond), sampleRate.N(100 * time.Millisecond)},
		{"chime", NewChime(sampleRate), len(chimeNotes) * sampleRate.N(chimeNote)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := drain(tt.stream)
			if len(samples) != tt.want {
				t.Errorf("got %d samples, want %d", len(samples), tt.want)
			}

			peak := 0.0
			for _, s := range samples {
				peak = math.Max(peak, math.Abs(s))
			}
			if peak == 0 {
				t.Error("generator is silent")
			}
			if peak > 1 {
				t.Errorf("peak %f clips", peak)
			}
		})
	}
}

func TestBoomIsDeterministic(t *testing.T) {
	a := drain(NewBoomGenerator(sampleRate, 50*time.Millisecond, 7))
	b := drain(NewBoomGenerator(sampleRate, 50*time.Millisecond, 7))
	c := drain(NewBoomGenerator(sampleRate, 50*time.Millisecond, 8))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for the same seed", i)
		}
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the same noise")
	}
}

func TestSweepFadesAtEdges(t *testing.T) {
	samples := drain(NewSweepGenerator(sampleRate, 300, 900, 200*time.Millisecond))
	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("first sample = %f, want silence", samples[0])
	}
	if math.Abs(samples[len(samples)-1]) > 0.01 {
		t.Errorf("last sample = %f, want near silence", samples[len(samples)-1])
	}
}

func TestApplyVolume(t *testing.T) {
	loud := drain(applyVolume(NewToneGenerator(sampleRate, 440, 20*time.Millisecond), 1))
	half := drain(applyVolume(NewToneGenerator(sampleRate, 440, 20*time.Millisecond), 0.5))
	mute := drain(applyVolume(NewToneGenerator(sampleRate, 440, 20*time.Millisecond), 0))

	for i := range loud {
		if math.Abs(half[i]-loud[i]/2) > 1e-9 {
			t.Fatalf("sample %d: half volume %f, want %f", i, half[i], loud[i]/2)
		}
		if mute[i] != 0 {
			t.Fatalf("sample %d: muted sample %f", i, mute[i])
		}
	}
}

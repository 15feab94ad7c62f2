package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SweepGenerator glides a sine tone from one frequency to another.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	phase    float64
	pos      int
	samples  int
}

// NewSweepGenerator creates a sweep lasting d.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{
		sr:      sr,
		from:    from,
		to:      to,
		samples: sr.N(d),
	}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		p := float64(g.pos) / float64(g.samples)
		freq := g.from + (g.to-g.from)*p
		g.phase += freq / float64(g.sr)

		// Rises then fades like air rushing past
		envelope := math.Sin(p * math.Pi)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// BoomGenerator generates an explosion: decaying noise over a low rumble.
type BoomGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	seed    int64
	last    float64
}

// NewBoomGenerator creates an explosion lasting d. The seed fixes the noise.
func NewBoomGenerator(sr beep.SampleRate, d time.Duration, seed int64) *BoomGenerator {
	return &BoomGenerator{
		sr:      sr,
		samples: sr.N(d),
		seed:    seed,
	}
}

func (g *BoomGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		envelope := math.Exp(-t * 6)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		// One-pole low-pass keeps the crackle dull
		g.last += 0.2 * (noise - g.last)

		rumble := math.Sin(2 * math.Pi * 55 * t)
		sample := envelope * (0.5*g.last + 0.3*rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BoomGenerator) Err() error {
	return nil
}

// ToneGenerator plays a plucked square-ish note.
type ToneGenerator struct {
	sr      beep.SampleRate
	freq    float64
	pos     int
	samples int
}

// NewToneGenerator creates a note of freq lasting d.
func NewToneGenerator(sr beep.SampleRate, freq float64, d time.Duration) *ToneGenerator {
	return &ToneGenerator{
		sr:      sr,
		freq:    freq,
		samples: sr.N(d),
	}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.samples {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		sample := 0.25*math.Sin(2*math.Pi*g.freq*t) + 0.08*math.Sin(2*math.Pi*g.freq*3*t)
		sample *= math.Exp(-t * 5)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// chimeNotes is a C major arpeggio ending an octave up.
var chimeNotes = []float64{523.25, 659.25, 783.99, 1046.50}

const chimeNote = time.Millisecond * 140

// NewChime returns the victory arpeggio.
func NewChime(sr beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, len(chimeNotes))
	for i, f := range chimeNotes {
		notes[i] = NewToneGenerator(sr, f, chimeNote)
	}
	return beep.Seq(notes...)
}

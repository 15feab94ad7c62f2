package gorillas

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

var testLayout = WindowLayout{RoomWidth: 16, FloorHeight: 32, Width: 8, Height: 16}

func TestBuildingContainsIsStrict(t *testing.T) {
	b := NewBuilding(100, 500, 80, 200, core.ColorRed, testLayout)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 140, 400, true},
		{"near corner", 100.01, 300.01, true},
		{"left wall", 100, 400, false},
		{"right wall", 180, 400, false},
		{"roof", 140, 300, false},
		{"street", 140, 500, false},
		{"above", 140, 250, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestBuildingWindowGrid(t *testing.T) {
	b := NewBuilding(100, 500, 80, 200, core.ColorRed, testLayout)
	windows := b.Windows()

	// 6 floors of 32px fit in 200px, 4 rooms of 16px fit in 80-4px.
	if len(windows) != 24 {
		t.Fatalf("expected 24 windows, got %d", len(windows))
	}
	first, last := windows[0], windows[len(windows)-1]
	if first.X != 108 || first.Y != 308 {
		t.Errorf("first window at (%v, %v), expected (108, 308)", first.X, first.Y)
	}
	if last.X != 156 || last.Y != 468 {
		t.Errorf("last window at (%v, %v), expected (156, 468)", last.X, last.Y)
	}
	for i, w := range windows {
		if w.X+w.W > b.Right() || w.Y+w.H > b.Baseline() {
			t.Errorf("window %d sticks out of the building", i)
		}
		if w.Lit {
			t.Errorf("window %d lit in a new building", i)
		}
	}
}

func TestBuildingTooSmallForWindows(t *testing.T) {
	b := NewBuilding(0, 100, 10, 20, core.ColorRed, testLayout)
	if n := len(b.Windows()); n != 0 {
		t.Errorf("expected no windows, got %d", n)
	}
}

func TestSkylineFillsWidth(t *testing.T) {
	world := World{Width: 800, Height: 440}
	sky := DefaultSkyline()

	for seed := int64(1); seed <= 50; seed++ {
		buildings := GenerateSkyline(rand.New(rand.NewSource(seed)), world, sky)
		if len(buildings) < 2 {
			t.Fatalf("seed %d: only %d buildings", seed, len(buildings))
		}

		x := 0.0
		for i, b := range buildings {
			if b.Left() != x {
				t.Fatalf("seed %d: building %d starts at %v, expected %v", seed, i, b.Left(), x)
			}
			x = b.Right()

			if b.Baseline() != world.Height {
				t.Errorf("seed %d: building %d off the street", seed, i)
			}
			if b.Height() < sky.MinHeight*world.Height || b.Height() >= sky.MaxHeight*world.Height {
				t.Errorf("seed %d: building %d height %v out of range", seed, i, b.Height())
			}
			if i > 0 && b.Color() == buildings[i-1].Color() {
				t.Errorf("seed %d: buildings %d and %d share color %v", seed, i-1, i, b.Color())
			}
		}
		if math.Abs(x-world.Width) > 1e-9 {
			t.Errorf("seed %d: skyline ends at %v, expected %v", seed, x, world.Width)
		}
	}
}

func TestSkylineAlternatesTwoColors(t *testing.T) {
	sky := DefaultSkyline()
	sky.Colors = []core.Color{core.ColorRed, core.ColorCyan}

	buildings := GenerateSkyline(rand.New(rand.NewSource(7)), World{Width: 800, Height: 440}, sky)
	for i := 1; i < len(buildings); i++ {
		if buildings[i].Color() == buildings[i-1].Color() {
			t.Fatalf("buildings %d and %d share a color", i-1, i)
		}
	}
}

func TestSkylineDeterministic(t *testing.T) {
	world := World{Width: 800, Height: 440}
	a := GenerateSkyline(rand.New(rand.NewSource(42)), world, DefaultSkyline())
	b := GenerateSkyline(rand.New(rand.NewSource(42)), world, DefaultSkyline())

	if len(a) != len(b) {
		t.Fatalf("building counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Left() != b[i].Left() || a[i].Height() != b[i].Height() || a[i].Color() != b[i].Color() {
			t.Errorf("building %d differs", i)
		}
		if !reflect.DeepEqual(a[i].Windows(), b[i].Windows()) {
			t.Errorf("building %d windows differ", i)
		}
	}
}

func TestSkylineEmptyInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := GenerateSkyline(rng, World{}, DefaultSkyline()); got != nil {
		t.Error("zero-width world should have no buildings")
	}
	sky := DefaultSkyline()
	sky.Colors = nil
	if got := GenerateSkyline(rng, World{Width: 800, Height: 440}, sky); got != nil {
		t.Error("no colors should give no buildings")
	}
}

func TestSkylineHasTwoRoofs(t *testing.T) {
	world := World{Width: 800, Height: 440}
	tests := []struct {
		name     string
		roomW    float64
		minRooms int
		maxRooms int
	}{
		{"room wider than the world", 1000, 1, 1},
		{"one building fills the world", 100, 8, 8},
		{"minimum leaves no second building", 100, 5, 9},
		{"classic", 16, 5, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sky := DefaultSkyline()
			sky.Layout.RoomWidth = tt.roomW
			sky.MinRooms, sky.MaxRooms = tt.minRooms, tt.maxRooms

			for seed := int64(1); seed <= 10; seed++ {
				buildings := GenerateSkyline(rand.New(rand.NewSource(seed)), world, sky)
				if len(buildings) < 2 {
					t.Fatalf("seed %d: %d buildings, want at least 2", seed, len(buildings))
				}
				last := buildings[len(buildings)-1]
				if end := last.Left() + last.Width(); end != world.Width {
					t.Errorf("seed %d: skyline ends at %v, want %v", seed, end, world.Width)
				}
			}
		})
	}
}

func TestBuildingWindowsDim(t *testing.T) {
	b := NewBuilding(0, 500, 160, 320, core.ColorGray, testLayout)
	rng := rand.New(rand.NewSource(3))
	b.lightWindows(rng, 1)
	b.rng = rng
	b.dimRate = 1

	total := len(b.Windows())
	if b.LitWindows() != total {
		t.Fatalf("expected all %d windows lit, got %d", total, b.LitWindows())
	}

	// With every window lit the dimming chance is dimRate, so one goes dark.
	b.Update()
	if b.LitWindows() != total-1 {
		t.Fatalf("expected %d lit windows after one update, got %d", total-1, b.LitWindows())
	}

	prev := b.LitWindows()
	for i := 0; i < 500; i++ {
		b.Update()
		if b.LitWindows() > prev {
			t.Fatal("a dark window came back on")
		}
		prev = b.LitWindows()
	}

	count := 0
	for _, w := range b.Windows() {
		if w.Lit {
			count++
		}
	}
	if count != b.LitWindows() {
		t.Errorf("lit counter %d disagrees with windows %d", b.LitWindows(), count)
	}
}

func TestBuildingLitMask(t *testing.T) {
	b := NewBuilding(0, 500, 80, 100, core.ColorRed, testLayout)
	b.setLitMask("101")

	if b.LitWindows() != 2 {
		t.Errorf("lit windows = %d, expected 2", b.LitWindows())
	}
	mask := b.litMask()
	if len(mask) != len(b.Windows()) || mask[:3] != "101" {
		t.Errorf("litMask = %q", mask)
	}
}

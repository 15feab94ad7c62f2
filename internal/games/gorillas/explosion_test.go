package gorillas

import (
	"math"
	"testing"
)

func TestExplosionRadiusPerStep(t *testing.T) {
	const rate, steps = 10.0, 10
	e := NewExplosion(0, 0, rate, steps, nil)

	for k := 0; k <= 2*steps+3; k++ {
		want := rate * float64(min(k+1, steps))
		if e.Radius() != want {
			t.Errorf("step %d: radius = %v, expected %v", k, e.Radius(), want)
		}
		if got := e.IsExploding(); got != (k < 2*steps) {
			t.Errorf("step %d: IsExploding = %v", k, got)
		}
		e.Update()
	}

	if e.Step() != 2*steps {
		t.Errorf("step counter = %d, expected to saturate at %d", e.Step(), 2*steps)
	}
	if e.Radius() != rate*steps {
		t.Errorf("final radius = %v, expected %v", e.Radius(), rate*steps)
	}
}

func TestExplosionPhases(t *testing.T) {
	e := NewExplosion(0, 0, 5, 10, nil)

	tests := []struct {
		step  int
		phase ExplosionPhase
	}{
		{0, ExplosionExpanding},
		{9, ExplosionExpanding},
		{10, ExplosionBurnout},
		{11, ExplosionContracting},
		{19, ExplosionContracting},
		{20, ExplosionFinished},
	}

	for _, tc := range tests {
		for e.Step() < tc.step {
			e.Update()
		}
		if got := e.Phase(); got != tc.phase {
			t.Errorf("step %d: phase = %v, expected %v", tc.step, got, tc.phase)
		}
	}
}

func TestExplosionDisplayRadius(t *testing.T) {
	e := NewExplosion(0, 0, 10, 10, nil)
	for e.Step() < 15 {
		e.Update()
	}
	if got := e.DisplayRadius(); math.Abs(got-50) > 1e-9 {
		t.Errorf("display radius halfway through contraction = %v, expected 50", got)
	}
	for e.IsExploding() {
		e.Update()
	}
	if e.DisplayRadius() != 0 {
		t.Errorf("finished display radius = %v, expected 0", e.DisplayRadius())
	}
	if e.Visible() {
		t.Error("finished explosion should not be drawn as a fireball")
	}
}

func TestExplosionOutlineColorClamped(t *testing.T) {
	e := NewExplosion(0, 0, 5, 10, nil)
	if e.OutlineColor() != explosionPalette[0] {
		t.Errorf("first outline = %v, expected %v", e.OutlineColor(), explosionPalette[0])
	}
	for e.Step() < 15 {
		e.Update()
	}
	if last := explosionPalette[len(explosionPalette)-1]; e.OutlineColor() != last {
		t.Errorf("late outline = %v, expected %v", e.OutlineColor(), last)
	}
}

func TestCraterContainment(t *testing.T) {
	e := NewExplosion(100, 100, 5, 10, nil)
	for e.IsExploding() {
		e.Update()
	}
	if e.Radius() != 50 {
		t.Fatalf("crater radius = %v, expected 50", e.Radius())
	}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 100, 100, true},
		{"right edge", 150, 100, true},
		{"bottom edge", 100, 150, true},
		{"diagonal edge", 130, 140, true},
		{"just outside", 150.001, 100, false},
		{"far", 300, 300, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Contains(tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestExplosionRemembersTarget(t *testing.T) {
	b := NewBuilding(0, 100, 50, 50, 0, WindowLayout{})
	e := NewExplosion(10, 60, 5, 10, b)
	if e.Hit() != Target(b) {
		t.Error("explosion lost its target")
	}
}

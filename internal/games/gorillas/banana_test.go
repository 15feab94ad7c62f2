package gorillas

import (
	"errors"
	"math"
	"testing"
)

type targetFunc func(x, y float64) bool

func (f targetFunc) Contains(x, y float64) bool { return f(x, y) }

var everywhere = targetFunc(func(float64, float64) bool { return true })

func newTestBanana(world World) *Banana {
	return NewBanana(world, 1, 10, DefaultLimits())
}

func TestBananaDefaults(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	if b.Speed() != 20 || b.Angle() != 45 || b.Direction() != Right {
		t.Errorf("defaults = speed %d angle %d dir %d, expected 20/45/right", b.Speed(), b.Angle(), b.Direction())
	}
	if b.IsMoving() || b.Visible() {
		t.Error("new banana should rest hidden")
	}
}

func TestBananaSetSpeed(t *testing.T) {
	tests := []struct {
		v      int
		accept bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{50, true},
		{99, true},
		{100, false},
		{1000, false},
	}

	for _, tc := range tests {
		b := newTestBanana(World{Width: 800, Height: 500})
		b.SetSpeed(30)

		got := b.SetSpeed(tc.v)
		if got != tc.accept {
			t.Errorf("SetSpeed(%d) = %v, expected %v", tc.v, got, tc.accept)
		}
		want := 30
		if tc.accept {
			want = tc.v
		}
		if b.Speed() != want {
			t.Errorf("after SetSpeed(%d) speed = %d, expected %d", tc.v, b.Speed(), want)
		}
	}
}

func TestBananaSetAngle(t *testing.T) {
	tests := []struct {
		a      int
		accept bool
	}{
		{-90, false},
		{-46, false},
		{-45, true},
		{0, true},
		{45, true},
		{90, true},
		{91, false},
		{180, false},
	}

	for _, tc := range tests {
		b := newTestBanana(World{Width: 800, Height: 500})
		b.SetAngle(10)

		got := b.SetAngle(tc.a)
		if got != tc.accept {
			t.Errorf("SetAngle(%d) = %v, expected %v", tc.a, got, tc.accept)
		}
		want := 10
		if tc.accept {
			want = tc.a
		}
		if b.Angle() != want {
			t.Errorf("after SetAngle(%d) angle = %d, expected %d", tc.a, b.Angle(), want)
		}
	}
}

func TestBananaAdjustAtLimits(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	b.SetSpeed(99)
	b.SetAngle(90)

	if b.AdjustSpeed(1) || b.Speed() != 99 {
		t.Errorf("speed above max accepted, speed = %d", b.Speed())
	}
	if b.AdjustAngle(5) || b.Angle() != 90 {
		t.Errorf("angle above max accepted, angle = %d", b.Angle())
	}
	if !b.AdjustAngle(-5) || b.Angle() != 85 {
		t.Errorf("AdjustAngle(-5) from 90 = %d, expected 85", b.Angle())
	}
}

func TestBananaSetDirection(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})

	if err := b.SetDirection(Left); err != nil || b.Direction() != Left {
		t.Fatalf("SetDirection(Left) = %v, direction %d", err, b.Direction())
	}
	for _, d := range []Direction{0, 2, -2, 7} {
		err := b.SetDirection(d)
		if !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("SetDirection(%d) error = %v, expected ErrInvalidDirection", d, err)
		}
		if b.Direction() != Left {
			t.Errorf("rejected direction changed orientation to %d", b.Direction())
		}
	}
	if err := b.SetDirection(Right); err != nil || b.Direction() != Right {
		t.Errorf("SetDirection(Right) = %v", err)
	}
}

func TestBananaTrajectory(t *testing.T) {
	tests := []struct {
		name  string
		speed int
		angle int
		dir   Direction
	}{
		{"classic right", 20, 45, Right},
		{"steep left", 35, 80, Left},
		{"flat right", 60, 0, Right},
		{"downward left", 10, -30, Left},
		{"straight up", 25, 90, Right},
	}

	const x0, y0, g = 5000.0, 5000.0, 1.0
	const ticks = 12

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBanana(World{Width: 10000, Height: 10000}, g, 10, DefaultLimits())
			b.SetSpeed(tc.speed)
			b.SetAngle(tc.angle)
			if err := b.SetDirection(tc.dir); err != nil {
				t.Fatal(err)
			}
			b.SetStart(x0, y0)
			b.Start()

			rad := float64(tc.angle) * math.Pi / 180
			vx := float64(tc.speed) * math.Cos(rad) * float64(tc.dir)
			vy0 := float64(tc.speed) * math.Sin(rad)

			sumVy := 0.0
			for n := 1; n <= ticks; n++ {
				sumVy += vy0 - float64(n-1)*g
				b.Update()

				gotVx, gotVy := b.Velocity()
				if math.Abs(gotVx-vx) > 1e-9 {
					t.Fatalf("tick %d: vx = %v, expected constant %v", n, gotVx, vx)
				}
				if want := vy0 - float64(n)*g; math.Abs(gotVy-want) > 1e-9 {
					t.Fatalf("tick %d: vy = %v, expected %v", n, gotVy, want)
				}
				x, y := b.Position()
				if want := x0 + float64(n)*vx; math.Abs(x-want) > 1e-9 {
					t.Fatalf("tick %d: x = %v, expected %v", n, x, want)
				}
				if want := y0 - sumVy; math.Abs(y-want) > 1e-9 {
					t.Fatalf("tick %d: y = %v, expected %v", n, y, want)
				}
			}
		})
	}
}

func TestBananaLandsEndToEnd(t *testing.T) {
	const height = 600.0
	b := NewBanana(World{Width: 800, Height: height}, 1, 10, DefaultLimits())
	b.SetSpeed(20)
	b.SetAngle(45)
	b.SetStart(100, 450)

	if b.Hits(everywhere) {
		t.Fatal("Hits must be false before Start")
	}

	// Closed form: first n with y0 - sum(vy0 - k) > height.
	vy0 := 20 * math.Sin(math.Pi/4)
	expected := 0
	for n, sum := 1, 0.0; n < 1000; n++ {
		sum += vy0 - float64(n-1)
		if 450-sum > height {
			expected = n
			break
		}
	}
	if expected == 0 {
		t.Fatal("closed form found no landing tick")
	}

	b.Start()
	if !b.Hits(everywhere) {
		t.Error("a moving banana should hit a target containing everything")
	}

	ticks := 0
	for b.IsMoving() && ticks < 1000 {
		b.Update()
		ticks++
	}
	if ticks != expected {
		t.Errorf("banana landed after %d ticks, expected %d", ticks, expected)
	}
	if _, y := b.Position(); y <= height {
		t.Errorf("landed at y = %v, expected below %v", y, height)
	}
	if b.Visible() {
		t.Error("a landed banana should be hidden")
	}
	if b.Hits(everywhere) {
		t.Error("a stopped banana must not hit")
	}
}

func TestBananaLeavesSideways(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	b.SetSpeed(50)
	b.SetAngle(0)
	b.SetStart(790, 300)
	b.Start()
	b.Update()

	if b.IsMoving() || b.Visible() {
		t.Error("banana past the right edge should stop and hide")
	}
}

func TestBananaMayFlyAboveTop(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	b.SetSpeed(90)
	b.SetAngle(90)
	b.SetStart(400, 50)
	b.Start()
	for i := 0; i < 5; i++ {
		b.Update()
	}

	if _, y := b.Position(); y >= 0 {
		t.Fatalf("expected the banana above the top edge, y = %v", y)
	}
	if !b.IsMoving() {
		t.Error("banana above the top edge should keep flying")
	}
}

func TestBananaReset(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	b.SetStart(100, 100)
	b.Start()
	b.Update()
	b.Update()
	b.Reset()

	if x, y := b.Position(); x != 100 || y != 100 {
		t.Errorf("Reset position = (%v, %v), expected (100, 100)", x, y)
	}
	if vx, vy := b.Velocity(); vx != 0 || vy != 0 {
		t.Errorf("Reset velocity = (%v, %v), expected zero", vx, vy)
	}
	if b.IsMoving() {
		t.Error("Reset banana should not move")
	}
	if b.Speed() != 20 || b.Angle() != 45 {
		t.Error("Reset must keep the dialed speed and angle")
	}
}

func TestBananaHitsWhereSkips(t *testing.T) {
	b := newTestBanana(World{Width: 800, Height: 500})
	b.SetStart(200, 200)
	b.Start()

	if b.HitsWhere(everywhere, func(float64, float64) bool { return true }) {
		t.Error("all points skipped should not hit")
	}

	// Skip only the center: the four offset points still hit.
	skipCenter := func(x, y float64) bool { return x == 200 && y == 200 }
	if !b.HitsWhere(everywhere, skipCenter) {
		t.Error("offset points should still hit")
	}

	// A target that only holds the point one size to the right.
	right := targetFunc(func(x, y float64) bool { return x == 210 && y == 200 })
	if !b.Hits(right) {
		t.Error("sample point at x+size not tested")
	}
}

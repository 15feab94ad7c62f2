package gorillas

// Target is anything a banana can hit.
type Target interface {
	Contains(x, y float64) bool
}

// Element is an object placed in the world that draws itself and advances
// once per tick.
type Element interface {
	Target
	Position() (x, y float64)
	Visible() bool
	Update()
	Draw(c Canvas)
}

// World is the pixel extent of the playfield. Y grows downward and the
// street is at y = Height.
type World struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// sprite holds the position and visibility shared by all elements.
type sprite struct {
	x, y    float64
	visible bool
}

// MoveTo places the element center at (x, y).
func (s *sprite) MoveTo(x, y float64) {
	s.x, s.y = x, y
}

// Show makes the element visible.
func (s *sprite) Show() {
	s.visible = true
}

// Hide makes the element invisible.
func (s *sprite) Hide() {
	s.visible = false
}

// Position returns the element center.
func (s *sprite) Position() (float64, float64) {
	return s.x, s.y
}

// Visible reports whether the element is drawn.
func (s *sprite) Visible() bool {
	return s.visible
}

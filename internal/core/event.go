package core

// EventKind identifies something notable that happened during a tick.
type EventKind int

const (
	EventThrow     EventKind = iota // a banana left a gorilla's hand
	EventExplosion                  // a banana hit something
	EventMiss                       // a banana left the world
	EventRoundOver                  // a gorilla was destroyed
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventThrow:
		return "throw"
	case EventExplosion:
		return "explosion"
	case EventMiss:
		return "miss"
	case EventRoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// Event is reported by games in StepResult so platforms can play sounds,
// log and persist results without looking into game internals.
type Event struct {
	Kind   EventKind
	Player PlayerID // player whose turn produced the event
	X, Y   float64  // world position, where meaningful

	// Round results, set for EventRoundOver.
	Winner      string
	Loser       string
	Throws      int
	WinnerTotal int
	MatchOver   bool
}

// Package multiplayer runs two-player matches: local hotseat and vs CPU
// games on one terminal, and online matches between two sessions (SSH
// connections) paired through a lobby join code.
package multiplayer

import "github.com/vovakirdan/tui-gorillas/internal/core"

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 hosts online matches and throws from the left.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// MatchMode defines who plays the two gorillas.
type MatchMode int

const (
	// MatchModeHotseat is two people taking turns at one keyboard.
	MatchModeHotseat MatchMode = iota

	// MatchModeVsCPU is a person against the computer.
	MatchModeVsCPU

	// MatchModeOnlinePvP is two sessions playing over the network.
	MatchModeOnlinePvP
)

// String returns a human-readable name for the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeHotseat:
		return "Hotseat"
	case MatchModeVsCPU:
		return "vs CPU"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// MatchHandle provides access to match metadata.
// Games receive this to know their context without managing match lifecycle.
type MatchHandle interface {
	// ID returns the unique identifier for this match.
	ID() MatchID

	// Mode returns how this match is configured.
	Mode() MatchMode
}

// Match is a concrete implementation of MatchHandle.
// Platform creates matches and passes handles to games.
type Match struct {
	id   MatchID
	mode MatchMode

	// Local games have one session, online matches two.
	sessions []SessionID
}

// NewMatch creates a new match with the given parameters.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:       id,
		mode:     mode,
		sessions: sessions,
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Mode returns the match mode.
func (m *Match) Mode() MatchMode {
	return m.mode
}

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.sessions
}

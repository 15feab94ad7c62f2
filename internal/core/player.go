package core

// PlayerID identifies a player slot in a two-player game.
type PlayerID int

const (
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Other returns the opposing player.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Index returns the zero-based slot of the player.
func (p PlayerID) Index() int {
	if p == Player2 {
		return 1
	}
	return 0
}

// PlayerAt returns the player for a zero-based slot.
func PlayerAt(index int) PlayerID {
	if index == 1 {
		return Player2
	}
	return Player1
}

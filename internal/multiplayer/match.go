package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-gorillas/internal/core"
)

// OnlineGame is the interface that games must implement to support online multiplayer.
type OnlineGame interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one tick using input from both players.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// SetPlayerNames shows the session names in the game.
	SetPlayerNames(p1, p2 string)

	// IsGameOver returns true once the match is decided.
	IsGameOver() bool

	// Winner returns the winning player (Player1/Player2) or 0 if no winner yet.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// MatchInfo describes a running match to observers and listings.
type MatchInfo struct {
	ID        MatchID   `json:"id"`
	Code      string    `json:"code"`
	GameID    string    `json:"game_id"`
	Names     [2]string `json:"names"`
	StartedAt time.Time `json:"started_at"`
}

// SnapshotObserver receives every snapshot of every match, for example to
// stream them to spectators. Calls come from match goroutines and must not block.
type SnapshotObserver interface {
	PublishSnapshot(info MatchInfo, tick uint64, snap GameSnapshot)
	MatchClosed(info MatchInfo, result MatchResult)
}

// OnlineMatch represents an active multiplayer game session.
type OnlineMatch struct {
	info MatchInfo
	game OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle
	observer       SnapshotObserver

	// Input handling
	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match.
func NewOnlineMatch(
	info MatchInfo,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	return &OnlineMatch{
		info:           info,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		tickRate:       max(1, tickRate),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// SetObserver sets the snapshot observer. Must be called before Run.
func (m *OnlineMatch) SetObserver(o SnapshotObserver) {
	m.observer = o
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.info.ID
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.info.Code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.info.GameID
}

// Info returns the match description.
func (m *OnlineMatch) Info() MatchInfo {
	return m.info
}

// TickRate returns the simulation rate in ticks per second.
func (m *OnlineMatch) TickRate() int {
	return m.tickRate
}

// SendInput sends player input to the match.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()

	finish := func(result MatchResult) {
		if m.observer != nil {
			m.observer.MatchClosed(m.info, result)
		}
		if onComplete != nil {
			onComplete(result)
		}
	}

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				finish(result)
				return
			}

		case sessionID := <-m.disconnectChan:
			finish(m.handleDisconnect(sessionID))
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	// Inputs are consumed by this tick.
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	snapshot := m.game.Snapshot()
	snapshotEvent := SnapshotEvent{
		MatchID:  m.info.ID,
		Tick:     m.tick,
		Snapshot: snapshot,
	}
	m.player1Session.Send(snapshotEvent)
	m.player2Session.Send(snapshotEvent)
	if m.observer != nil {
		m.observer.PublishSnapshot(m.info, m.tick, snapshot)
	}

	if m.game.IsGameOver() {
		return MatchResult{
			MatchID: m.info.ID,
			Reason:  MatchEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Ticks:   m.tick,
		}, true
	}

	return MatchResult{}, false
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			// Presses between ticks are ORed together.
			if pi.player == Player1 {
				m.lastInput1.Merge(pi.input)
			} else {
				m.lastInput2.Merge(pi.input)
			}
		default:
			return
		}
	}
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}

	return MatchResult{
		MatchID: m.info.ID,
		Reason:  MatchEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop ends the match loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

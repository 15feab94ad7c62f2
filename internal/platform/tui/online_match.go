package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// OnlineMatchModel plays one side of an online match. The server runs the
// game; this model forwards key presses and draws the snapshots it gets.
type OnlineMatchModel struct {
	coordinator *multiplayer.Coordinator
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	side        core.PlayerID
	names       [2]string
	game        *gorillas.Game
	screen      *core.Screen
	keyMapper   *KeyMapper
	tick        uint64

	ended           *multiplayer.MatchEndedEvent
	rematchFrom     string // opponent waiting for a rematch
	waitingRematch  bool
	rematchDeclined bool

	backToMenu bool
	quitting   bool
}

// NewOnlineMatchModel creates the view of match for the session playing side.
// Coordinator events reach it through Update.
func NewOnlineMatchModel(
	coordinator *multiplayer.Coordinator,
	sessionID multiplayer.SessionID,
	matchID multiplayer.MatchID,
	side core.PlayerID,
	names [2]string,
	width, height int,
) OnlineMatchModel {
	m := OnlineMatchModel{
		coordinator: coordinator,
		sessionID:   sessionID,
		screen:      core.NewScreen(width, height),
		keyMapper:   NewKeyMapper(),
	}
	m.start(matchID, side, names)
	return m
}

// start resets the local mirror for a new match.
func (m *OnlineMatchModel) start(matchID multiplayer.MatchID, side core.PlayerID, names [2]string) {
	m.matchID = matchID
	m.side = side
	m.names = names
	m.tick = 0
	m.ended = nil
	m.rematchFrom = ""
	m.waitingRematch = false
	m.rematchDeclined = false

	// Same layout as the server game; snapshots overwrite the rest.
	m.game = gorillas.NewOnline()
	m.game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	m.game.SetPlayerNames(names[0], names[1])
	m.game.SetLocalPlayer(side)
}

// Init implements tea.Model.
func (m OnlineMatchModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID {
			if snap, ok := msg.Snapshot.(gorillas.GorillasSnapshot); ok {
				m.game.ApplySnapshot(snap)
				m.tick = msg.Tick
			}
		}
		return m, nil

	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID || msg.MatchID == "" {
			m.ended = &msg
		}
		return m, nil

	case multiplayer.RematchRequestedEvent:
		m.rematchFrom = msg.From
		return m, nil

	case multiplayer.RematchDeclinedEvent:
		m.rematchDeclined = true
		m.waitingRematch = false
		m.rematchFrom = ""
		return m, nil

	case multiplayer.MatchStartedEvent:
		m.start(msg.MatchID, msg.Side, msg.Names)
		return m, nil
	}

	return m, nil
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)

	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		m.leave()
		m.backToMenu = true
		return m, nil

	case m.ended != nil:
		if action == core.ActionRestart && m.canRematch() && !m.waitingRematch {
			m.waitingRematch = true
			m.coordinator.Send(multiplayer.ReadyForRematchMsg{
				SessionID: m.sessionID,
				MatchID:   m.matchID,
			})
		}
		return m, nil

	case action != core.ActionNone:
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    core.FrameOf(action),
		})
	}

	return m, nil
}

// leave tells the coordinator this session is gone from the match, or
// declines the rematch when the match is over.
func (m OnlineMatchModel) leave() {
	m.coordinator.Send(multiplayer.LeaveMatchMsg{
		SessionID: m.sessionID,
		MatchID:   m.matchID,
	})
}

func (m OnlineMatchModel) canRematch() bool {
	return m.ended != nil && m.ended.Reason == multiplayer.MatchEndReasonCompleted && !m.rematchDeclined
}

// View renders the match and, once it is over, the result.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.ended != nil {
		m.drawResult()
	}
	return RenderScreen(m.screen)
}

func (m OnlineMatchModel) drawResult() {
	lines := []string{m.resultLine(), fmt.Sprintf("%d - %d", m.ended.Score1, m.ended.Score2), ""}

	switch {
	case !m.canRematch():
		if m.rematchDeclined {
			lines = append(lines, "Rematch declined")
		}
		lines = append(lines, "B: Back to menu")
	case m.waitingRematch:
		lines = append(lines, "Waiting for opponent...", "B: Back to menu")
	case m.rematchFrom != "":
		lines = append(lines, fmt.Sprintf("%s wants a rematch!", m.rematchFrom), "R: Accept  |  B: Back to menu")
	default:
		lines = append(lines, "R: Rematch  |  B: Back to menu")
	}

	top := max(0, m.screen.Height()/2-len(lines)/2)
	for i, line := range lines {
		m.screen.DrawTextCentered(top+i, line)
	}
}

func (m OnlineMatchModel) resultLine() string {
	switch {
	case m.ended.Reason != multiplayer.MatchEndReasonCompleted:
		return m.ended.Reason.String()
	case m.ended.Winner == m.side:
		return "YOU WIN THE MATCH!"
	case m.ended.Winner == 0:
		return "MATCH OVER"
	default:
		return "YOU LOSE THE MATCH"
	}
}

// MatchID returns the match being played.
func (m OnlineMatchModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Ended returns the end of the match, or nil while it runs.
func (m OnlineMatchModel) Ended() *multiplayer.MatchEndedEvent {
	return m.ended
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

func press(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestMenuItems(t *testing.T) {
	local := NewMenuModel(testRuntime(), false)
	online := NewMenuModel(testRuntime(), true)

	if len(online.items) != len(local.items)+1 {
		t.Fatalf("online menu has %d items, local %d", len(online.items), len(local.items))
	}
	last := online.items[len(online.items)-1]
	if last.Mode != multiplayer.MatchModeOnlinePvP {
		t.Errorf("last item mode = %v, want online", last.Mode)
	}

	modes := map[string]multiplayer.MatchMode{}
	for _, item := range local.items {
		modes[item.GameID] = item.Mode
	}
	if modes[gorillas.IDHotseat] != multiplayer.MatchModeHotseat {
		t.Error("gorillas should be hotseat")
	}
	if modes[gorillas.IDVersusCPU] != multiplayer.MatchModeVsCPU {
		t.Error("gorillas_cpu should be vs CPU")
	}
}

func TestMatchSetup(t *testing.T) {
	m := NewMatchSetupModel(multiplayer.MatchModeVsCPU, 80, 24)
	if got := len(m.rows()); got != 3 {
		t.Fatalf("vs CPU setup has %d rows, want 3", got)
	}
	if got := len(NewMatchSetupModel(multiplayer.MatchModeHotseat, 80, 24).rows()); got != 2 {
		t.Fatalf("hotseat setup has %d rows, want 2", got)
	}

	m.firstTo = 0
	m.preset = 0
	steps := []tea.KeyMsg{
		runeKey("h"), // first to wraps to 10
		runeKey("j"),
		runeKey("l"), // easy -> normal
		runeKey("l"), // normal -> hard
		runeKey("j"),
	}
	for _, k := range steps {
		next, _ := m.Update(k)
		m = next.(MatchSetupModel)
	}
	if m.Selected() != nil {
		t.Fatal("setup should still be choosing")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MatchSetupModel)
	sel := m.Selected()
	if sel == nil {
		t.Fatal("enter on Start should finish the setup")
	}
	if sel.FirstTo != 10 || sel.Difficulty != "hard" || sel.Mode != multiplayer.MatchModeVsCPU {
		t.Errorf("setup = %+v", *sel)
	}

	game := sel.NewGame()
	if game.Config().Gameplay.WinScore != 10 {
		t.Errorf("game win score = %d, want 10", game.Config().Gameplay.WinScore)
	}
}

func TestSessionFlow(t *testing.T) {
	m := NewSessionModel(SessionDeps{}, testRuntime())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, want scores", m.screen)
	}

	m, _ = press(t, m, runeKey("b"))
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenSetup {
		t.Fatalf("screen = %v, want setup", m.screen)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu after back", m.screen)
	}

	m, cmd := press(t, m, TickMsg{})
	if cmd != nil {
		t.Error("ticks outside a game should be dropped")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.setup.cursor = len(m.setup.rows()) - 1
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if cmd == nil {
		t.Error("starting a game should schedule ticks")
	}

	m, cmd = press(t, m, runeKey("q"))
	if !m.quitting || cmd == nil {
		t.Error("q in a game should quit the session")
	}
}

func newTestOnlineMatch(t *testing.T) OnlineMatchModel {
	t.Helper()
	coord := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), nil, multiplayer.NewSessionRegistry())
	return NewOnlineMatchModel(coord, "s1", "m1", core.Player1, [2]string{"ann", "bob"}, 80, 24)
}

func updateOnline(m OnlineMatchModel, msg tea.Msg) OnlineMatchModel {
	next, _ := m.Update(msg)
	return next.(OnlineMatchModel)
}

func TestOnlineMatchAppliesSnapshots(t *testing.T) {
	m := newTestOnlineMatch(t)

	server := gorillas.NewOnline()
	server.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7})
	server.SetPlayerNames("ann", "bob")

	m = updateOnline(m, multiplayer.SnapshotEvent{MatchID: "m1", Tick: 5, Snapshot: server.Snapshot()})
	if m.tick != 5 {
		t.Errorf("tick = %d, want 5", m.tick)
	}
	if len(m.game.Buildings()) != len(server.Buildings()) {
		t.Errorf("client has %d buildings, server %d", len(m.game.Buildings()), len(server.Buildings()))
	}
	if got := m.game.PlayerName(core.Player2); got != "bob" {
		t.Errorf("player 2 = %q, want bob", got)
	}

	m = updateOnline(m, multiplayer.SnapshotEvent{MatchID: "other", Tick: 9, Snapshot: server.Snapshot()})
	if m.tick != 5 {
		t.Error("snapshots of other matches should be ignored")
	}
}

func TestOnlineMatchRematch(t *testing.T) {
	m := newTestOnlineMatch(t)

	m = updateOnline(m, multiplayer.MatchEndedEvent{
		MatchID: "m1",
		Reason:  multiplayer.MatchEndReasonCompleted,
		Winner:  core.Player1,
		Score1:  3,
		Score2:  1,
	})
	if m.Ended() == nil || m.resultLine() != "YOU WIN THE MATCH!" {
		t.Fatalf("ended = %v, result %q", m.Ended(), m.resultLine())
	}
	if m.View() == "" {
		t.Error("result view should not be empty")
	}

	m = updateOnline(m, multiplayer.RematchRequestedEvent{MatchID: "m1", From: "bob"})
	if m.rematchFrom != "bob" {
		t.Errorf("rematchFrom = %q, want bob", m.rematchFrom)
	}

	m = updateOnline(m, runeKey("r"))
	if !m.waitingRematch {
		t.Error("r should request a rematch")
	}

	m = updateOnline(m, multiplayer.MatchStartedEvent{MatchID: "m2", Side: core.Player1, Names: [2]string{"ann", "bob"}, Rematch: true})
	if m.Ended() != nil || m.MatchID() != "m2" || m.waitingRematch {
		t.Errorf("rematch should start fresh: ended=%v id=%q waiting=%v", m.Ended(), m.MatchID(), m.waitingRematch)
	}
}

func TestOnlineMatchDeclinedRematch(t *testing.T) {
	m := newTestOnlineMatch(t)

	m = updateOnline(m, multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonCompleted, Winner: core.Player2})
	if m.resultLine() != "YOU LOSE THE MATCH" {
		t.Errorf("result = %q", m.resultLine())
	}

	m = updateOnline(m, multiplayer.RematchDeclinedEvent{MatchID: "m1"})
	if m.canRematch() {
		t.Error("a declined rematch cannot be requested")
	}

	m = updateOnline(m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("b should go back to the menu")
	}
}

func TestOnlineMatchDisconnect(t *testing.T) {
	m := newTestOnlineMatch(t)

	m = updateOnline(m, multiplayer.MatchEndedEvent{MatchID: "m1", Reason: multiplayer.MatchEndReasonDisconnect})
	if m.canRematch() {
		t.Error("no rematch after a disconnect")
	}
	if m.resultLine() != multiplayer.MatchEndReasonDisconnect.String() {
		t.Errorf("result = %q", m.resultLine())
	}
}

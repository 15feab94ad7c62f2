package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

func newTestLobby(t *testing.T) OnlineLobbyModel {
	t.Helper()
	coord := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), nil, multiplayer.NewSessionRegistry())
	return NewOnlineLobbyModel("gorillas", "s1", "ann", coord, 80, 24)
}

func updateLobby(m OnlineLobbyModel, msg tea.Msg) OnlineLobbyModel {
	next, _ := m.Update(msg)
	return next.(OnlineLobbyModel)
}

func TestCleanJoinCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc123", "ABC123"},
		{"a-b c", "ABC"},
		{"QWERTYUIOP", "QWERTY"},
		{"", ""},
		{"ä!?", ""},
	}
	for _, tt := range tests {
		if got := cleanJoinCode(tt.in); got != tt.want {
			t.Errorf("cleanJoinCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLobbyJoinFlow(t *testing.T) {
	m := newTestLobby(t)

	m = updateLobby(m, runeKey("2"))
	if m.State() != OnlineStateJoinEnterCode {
		t.Fatalf("state = %v, want code entry", m.State())
	}

	// b is a valid code character here, not "back".
	for _, r := range "ab3q" {
		m = updateLobby(m, runeKey(string(r)))
	}
	if m.BackToMenu() || m.IsQuitting() {
		t.Fatal("typing a code should not leave the lobby")
	}
	if got := m.code.Value(); got != "AB3Q" {
		t.Fatalf("code = %q, want AB3Q", got)
	}

	m = updateLobby(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != OnlineStateJoinEnterCode || m.joinError == "" {
		t.Fatal("a short code should be rejected")
	}

	for _, r := range "xy" {
		m = updateLobby(m, runeKey(string(r)))
	}
	m = updateLobby(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != OnlineStateJoinWaiting {
		t.Fatalf("state = %v, want waiting", m.State())
	}

	m = updateLobby(m, multiplayer.LobbyErrorEvent{Message: "lobby not found"})
	if m.State() != OnlineStateJoinEnterCode || m.joinError != "lobby not found" {
		t.Errorf("state = %v, error %q", m.State(), m.joinError)
	}
	if !strings.Contains(m.View(), "lobby not found") {
		t.Error("view should show the join error")
	}
}

func TestLobbyHostFlow(t *testing.T) {
	m := newTestLobby(t)
	if !strings.Contains(m.View(), "ONLINE GORILLAS") {
		t.Error("choose view should show the title")
	}

	m = updateLobby(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = updateLobby(m, multiplayer.LobbyCreatedEvent{Code: "K7QF2A", GameID: "gorillas"})
	if m.State() != OnlineStateHostWaiting || m.LobbyCode() != "K7QF2A" {
		t.Fatalf("state = %v, code %q", m.State(), m.LobbyCode())
	}
	if !strings.Contains(m.View(), "K7QF2A") {
		t.Error("host view should show the join code")
	}

	m = updateLobby(m, multiplayer.LobbyJoinedEvent{Code: "K7QF2A", Side: core.Player1, OpponentName: "bob"})
	if !strings.Contains(m.View(), "bob joined") {
		t.Error("host view should name the opponent")
	}

	m = updateLobby(m, multiplayer.MatchStartedEvent{
		MatchID: "m1",
		Side:    core.Player1,
		Names:   [2]string{"ann", "bob"},
	})
	if m.State() != OnlineStateInMatch || m.MatchID() != "m1" || m.Names()[1] != "bob" {
		t.Errorf("state = %v, match %q, names %v", m.State(), m.MatchID(), m.Names())
	}
}

func TestLobbyCancel(t *testing.T) {
	m := newTestLobby(t)
	m = updateLobby(m, multiplayer.LobbyCreatedEvent{Code: "K7QF2A"})
	m = updateLobby(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc while hosting should go back to the menu")
	}
}

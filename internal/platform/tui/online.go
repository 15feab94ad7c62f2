package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// OnlineState is a step of the host/join flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Host or join
	OnlineStateHostWaiting                      // Lobby open, waiting for the opponent
	OnlineStateJoinEnterCode                    // Typing the join code
	OnlineStateJoinWaiting                      // Join sent, waiting for the coordinator
	OnlineStateInMatch                          // Match started; the session takes over
)

const joinCodeLength = 6

var (
	lobbyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	lobbyCodeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	lobbyErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lobbyHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// OnlineLobbyModel hosts or joins an online match. Coordinator events are
// delivered to Update by the session.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	cursor      int
	gameID      string
	sessionID   multiplayer.SessionID
	name        string
	firstTo     int
	coordinator *multiplayer.Coordinator

	lobbyCode    string
	code         textinput.Model
	joinError    string
	opponentName string

	matchID multiplayer.MatchID
	side    core.PlayerID
	names   [2]string

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model. name is shown to
// the opponent.
func NewOnlineLobbyModel(
	gameID string,
	sessionID multiplayer.SessionID,
	name string,
	coordinator *multiplayer.Coordinator,
	width, height int,
) OnlineLobbyModel {
	code := textinput.New()
	code.Prompt = ""
	code.Placeholder = strings.Repeat("_", joinCodeLength)
	code.CharLimit = joinCodeLength
	code.Width = joinCodeLength
	code.Cursor.SetMode(cursor.CursorStatic)

	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		sessionID:   sessionID,
		name:        name,
		firstTo:     gorillas.LoadConfig().Gameplay.OnlineWinScore,
		coordinator: coordinator,
		code:        code,
	}
}

func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentName = msg.OpponentName
	case multiplayer.LobbyPlayerLeftEvent:
		m.opponentName = ""
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			return m.enterCode()
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.names = msg.Names
		m.state = OnlineStateInMatch
	case multiplayer.MatchEndedEvent:
		// The host left before the first throw.
		m.joinError = msg.Reason.String()
		return m.enterCode()
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.chooseKey(msg)
	case OnlineStateHostWaiting:
		switch msg.String() {
		case "esc", "b":
			m.cancelLobby()
			m.backToMenu = true
		case "q":
			m.cancelLobby()
			return m.quit()
		}
	case OnlineStateJoinEnterCode:
		return m.codeKey(msg)
	case OnlineStateJoinWaiting:
		if msg.String() == "esc" {
			m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.code.Value()})
			return m.enterCode()
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) chooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j", "tab":
		m.cursor = 1 - m.cursor
		return m, nil
	case "h", "H", "1":
		m.cursor = 0
		return m.host()
	case "J", "2":
		m.cursor = 1
		m.joinError = ""
		return m.enterCode()
	case "enter", " ":
		if m.cursor == 0 {
			return m.host()
		}
		m.joinError = ""
		return m.enterCode()
	case "esc", "b":
		m.backToMenu = true
	case "q":
		return m.quit()
	}
	return m, nil
}

// codeKey edits the join code. Letters are all valid code characters, so
// only Esc leaves this step.
func (m OnlineLobbyModel) codeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.backToMenu = true
		return m, nil
	case "enter":
		if len(m.code.Value()) != joinCodeLength {
			m.joinError = fmt.Sprintf("codes have %d characters", joinCodeLength)
			return m, nil
		}
		m.joinError = ""
		m.state = OnlineStateJoinWaiting
		m.code.Blur()
		m.coordinator.Send(multiplayer.JoinLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.code.Value(),
			Name:      m.name,
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	m.code.SetValue(cleanJoinCode(m.code.Value()))
	return m, cmd
}

func (m OnlineLobbyModel) host() (tea.Model, tea.Cmd) {
	m.coordinator.Send(multiplayer.CreateLobbyMsg{
		SessionID: m.sessionID,
		GameID:    m.gameID,
		Name:      m.name,
	})
	return m, nil
}

func (m OnlineLobbyModel) enterCode() (tea.Model, tea.Cmd) {
	m.state = OnlineStateJoinEnterCode
	m.code.Reset()
	cmd := m.code.Focus()
	return m, cmd
}

func (m OnlineLobbyModel) cancelLobby() {
	m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
}

func (m OnlineLobbyModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// cleanJoinCode upper-cases s and drops anything a join code cannot hold.
func cleanJoinCode(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > joinCodeLength {
		out = out[:joinCodeLength]
	}
	return out
}

// View renders the current step.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateHostWaiting:
		status := "Waiting for a challenger..."
		if m.opponentName != "" {
			status = m.opponentName + " joined, starting..."
		}
		return m.frame("HOSTING", []string{
			"Share this code with your opponent:",
			"",
			lobbyCodeStyle.Render(m.lobbyCode),
			"",
			status,
		}, "Esc: Cancel  |  Q: Quit")

	case OnlineStateJoinEnterCode:
		body := []string{"Enter the join code:", "", "[ " + m.code.View() + " ]"}
		if m.joinError != "" {
			body = append(body, "", lobbyErrorStyle.Render(m.joinError))
		}
		return m.frame("JOIN A MATCH", body, "Enter: Connect  |  Esc: Back")

	case OnlineStateJoinWaiting:
		return m.frame("CONNECTING", []string{
			"Joining " + lobbyCodeStyle.Render(m.code.Value()),
			"",
			"Climbing onto the roof...",
		}, "Esc: Cancel")

	case OnlineStateInMatch:
		side := "the LEFT gorilla"
		if m.side == core.Player2 {
			side = "the RIGHT gorilla"
		}
		return m.frame("MATCH STARTING", []string{
			fmt.Sprintf("%s vs %s", m.names[0], m.names[1]),
			"",
			"You are " + side,
		}, "")
	}

	options := []string{"Host a match", "Join a match"}
	body := []string{m.rules(), ""}
	for i, opt := range options {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		body = append(body, fmt.Sprintf("%s[%d] %s", prefix, i+1, opt))
	}
	return m.frame("ONLINE GORILLAS", body, "Enter: Select  |  Esc: Back  |  Q: Quit")
}

func (m OnlineLobbyModel) rules() string {
	if m.firstTo <= 0 {
		return "Endless match, one banana at a time"
	}
	return fmt.Sprintf("First to %d rounds wins", m.firstTo)
}

// frame centers a lobby screen in the terminal.
func (m OnlineLobbyModel) frame(title string, body []string, help string) string {
	lines := make([]string, 0, len(body)+4)
	lines = append(lines, lobbyTitleStyle.Render(title), "")
	lines = append(lines, body...)
	if help != "" {
		lines = append(lines, "", lobbyHelpStyle.Render(help))
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

// State returns the current step.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID once a match has started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which gorilla this session throws for.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// Names returns the player names of the started match.
func (m OnlineLobbyModel) Names() [2]string {
	return m.names
}

// LobbyCode returns the code of the hosted lobby.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

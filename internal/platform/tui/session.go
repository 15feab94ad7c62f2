package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// SessionDeps are what a session needs besides its terminal.
type SessionDeps struct {
	Services    Services
	Coordinator *multiplayer.Coordinator // nil disables online play
	Session     *multiplayer.ChannelSession
	Username    string
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenSetup
	screenGame
	screenScores
	screenLobby
	screenOnline
)

// SessionModel manages the full session flow: menu, match setup, game,
// scoreboard and online play. It is the top-level model of SSH sessions.
//
// Sub-models signal that they are done by quitting; the session catches
// that and moves on instead of ending the program.
type SessionModel struct {
	deps     SessionDeps
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	setup    MatchSetupModel
	game     GameModel
	scores   ScoreboardModel
	lobby    OnlineLobbyModel
	online   OnlineMatchModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig) SessionModel {
	m := SessionModel{
		deps:   deps,
		config: cfg,
	}
	m.menu = NewMenuModel(cfg, m.onlineEnabled())
	return m
}

func (m SessionModel) onlineEnabled() bool {
	return m.deps.Coordinator != nil && m.deps.Session != nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), m.listen())
}

// listen delivers the next coordinator event. The session is the only
// reader of its event channel.
func (m SessionModel) listen() tea.Cmd {
	if !m.onlineEnabled() {
		return nil
	}
	events := m.deps.Session.Events()
	done := m.deps.Session.Done()
	return func() tea.Msg {
		select {
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if _, ok := msg.(multiplayer.SessionEvent); ok {
		next, cmd := m.route(msg)
		return next, tea.Batch(cmd, next.listen())
	}
	if _, ok := msg.(TickMsg); ok && m.screen != screenGame {
		return m, nil
	}

	return m.route(msg)
}

// route passes msg to the active screen.
func (m SessionModel) route(msg tea.Msg) (SessionModel, tea.Cmd) {
	switch m.screen {
	case screenSetup:
		return m.updateSetup(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenOnline:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (SessionModel, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config, m.onlineEnabled())
	return m, m.menu.Init()
}

func (m SessionModel) quit() (SessionModel, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()

	case m.menu.WantsScoreboard():
		m.screen = screenScores
		m.scores = NewScoreboardModel(m.deps.Services.Store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		selected := m.menu.Selected()
		if selected.Mode == multiplayer.MatchModeOnlinePvP {
			m.screen = screenLobby
			m.lobby = NewOnlineLobbyModel(selected.GameID, m.deps.Session.ID(), m.deps.Username,
				m.deps.Coordinator, m.config.ScreenW, m.config.ScreenH)
			return m, m.lobby.Init()
		}
		m.screen = screenSetup
		m.setup = NewMatchSetupModel(selected.Mode, m.config.ScreenW, m.config.ScreenH)
		return m, m.setup.Init()
	}

	return m, cmd
}

func (m SessionModel) updateSetup(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	if setup, ok := next.(MatchSetupModel); ok {
		m.setup = setup
	}

	switch {
	case m.setup.IsQuitting():
		return m.quit()
	case m.setup.WantsBack():
		return m.toMenu()
	case m.setup.Selected() != nil:
		game := m.setup.Selected().NewGame()
		var match *multiplayer.Match
		if m.deps.Session != nil {
			match = newLocalMatch(game, m.deps.Session.ID())
		}
		m.game = NewGameModel(game, m.deps.Services, m.config, match).WithNames(m.deps.Username, "")
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		return m.quit()
	case m.game.BackToMenu():
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if lobby, ok := next.(OnlineLobbyModel); ok {
		m.lobby = lobby
	}

	switch {
	case m.lobby.IsQuitting():
		return m.quit()
	case m.lobby.BackToMenu():
		return m.toMenu()
	case m.lobby.State() == OnlineStateInMatch:
		m.screen = screenOnline
		m.online = NewOnlineMatchModel(m.deps.Coordinator, m.deps.Session.ID(),
			m.lobby.MatchID(), m.lobby.Side(), m.lobby.Names(), m.config.ScreenW, m.config.ScreenH)
		return m, m.online.Init()
	}

	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (SessionModel, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	if online, ok := next.(OnlineMatchModel); ok {
		m.online = online
	}

	switch {
	case m.online.IsQuitting():
		return m.quit()
	case m.online.BackToMenu():
		return m.toMenu()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenSetup:
		return m.setup.View()
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	case screenLobby:
		return m.lobby.View()
	case screenOnline:
		return m.online.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the full local flow in the terminal: menu, setup, game
// and scoreboard, in one program.
func RunSession(svc Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(SessionDeps{Services: svc}, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

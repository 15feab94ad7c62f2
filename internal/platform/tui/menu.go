package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gorillas/internal/core"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
	"github.com/vovakirdan/tui-gorillas/internal/registry"
)

// banner is drawn above the menu: two gorillas on their rooftops.
var banner = []string{
	` o/                          \o `,
	`/|     G O R I L L A S       |\ `,
	`/ \  _                    _  / \`,
	`###_| |__   ___    __ ___| |_###`,
	`###:|:|::|_|:::|__|::|:::|:|:###`,
}

var (
	bannerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	menuNoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
)

// MenuItem is one way to play.
type MenuItem struct {
	GameID      string
	Title       string
	Description string
	Mode        multiplayer.MatchMode
}

// MenuModel picks the match mode or opens the standings.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model. The online entry is only offered
// when online play is available.
func NewMenuModel(cfg core.RuntimeConfig, online bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)
	for _, g := range games {
		mode := multiplayer.MatchModeHotseat
		if g.ID == gorillas.IDVersusCPU {
			mode = multiplayer.MatchModeVsCPU
		}
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title, Description: g.Description, Mode: mode})
	}

	if online && registry.Exists(gorillas.IDHotseat) {
		items = append(items, MenuItem{
			GameID:      gorillas.IDHotseat,
			Title:       "Gorillas Online",
			Description: "Host a match or join one with a code",
			Mode:        multiplayer.MatchModeOnlinePvP,
		})
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = wrap(m.cursor-1, len(m.items))
	case MenuActionDown:
		m.cursor = wrap(m.cursor+1, len(m.items))
	case MenuActionSelect:
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{bannerStyle.Render(strings.Join(banner, "\n")), ""}
	if len(m.items) == 0 {
		lines = append(lines, "No game modes registered.")
	}
	for i, item := range m.items {
		style := menuItemStyle
		if i == m.cursor {
			style = menuActiveStyle
		}
		lines = append(lines, style.Render(" "+item.Title+" "))
	}
	if len(m.items) > 0 {
		lines = append(lines, "", menuNoteStyle.Render(m.items[m.cursor].Description))
	}
	lines = append(lines, "", lobbyHelpStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"))

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block) + "\n"
}

// Selected returns the chosen item, or nil while the menu is open.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard reports whether Tab was pressed.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads text on the left to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gorillas/internal/config"
	"github.com/vovakirdan/tui-gorillas/internal/games/gorillas"
	"github.com/vovakirdan/tui-gorillas/internal/multiplayer"
)

// firstToChoices are the selectable match lengths; 0 plays endless rounds.
var firstToChoices = []int{0, 1, 3, 5, 7, 10}

// MatchSetup holds the choices made before a local match.
type MatchSetup struct {
	Mode       multiplayer.MatchMode
	FirstTo    int
	Difficulty config.DifficultyPreset
}

// NewGame creates the game for the setup.
func (s MatchSetup) NewGame() *gorillas.Game {
	return gorillas.NewWithConfig(s.Mode, gorillas.LoadConfigFor(s.Difficulty, s.FirstTo))
}

// MatchSetupModel lets users choose the match length and, against the
// CPU, its difficulty.
type MatchSetupModel struct {
	mode      multiplayer.MatchMode
	cursor    int
	firstTo   int // index into firstToChoices
	preset    int // index into config.Presets
	width     int
	height    int
	keyMapper *KeyMapper
	choosing  bool
	quitting  bool
	back      bool
}

// NewMatchSetupModel creates a setup screen for mode, starting from the
// configured win score and difficulty.
func NewMatchSetupModel(mode multiplayer.MatchMode, width, height int) MatchSetupModel {
	cfg := gorillas.LoadConfig()
	m := MatchSetupModel{
		mode:      mode,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
	for i, n := range firstToChoices {
		if n == cfg.Gameplay.WinScore {
			m.firstTo = i
		}
	}
	for i, p := range config.Presets {
		if p == gorillas.CurrentDifficulty() {
			m.preset = i
		}
	}
	return m
}

// rows returns the labels of the selectable rows.
func (m MatchSetupModel) rows() []string {
	firstTo := "endless"
	if n := firstToChoices[m.firstTo]; n > 0 {
		firstTo = fmt.Sprintf("%d", n)
	}
	rows := []string{fmt.Sprintf("First to:   < %s >", firstTo)}
	if m.mode == multiplayer.MatchModeVsCPU {
		rows = append(rows, fmt.Sprintf("Difficulty: < %s >", config.Presets[m.preset]))
	}
	return append(rows, "Start")
}

// Init initializes the model.
func (m MatchSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MatchSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m MatchSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	last := len(rows) - 1

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < last {
			m.cursor++
		}
	case MenuActionLeft:
		m.cycle(-1)
	case MenuActionRight:
		m.cycle(1)
	case MenuActionSelect:
		if m.cursor == last {
			m.choosing = false
			return m, tea.Quit
		}
		m.cycle(1)
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

// cycle steps the value of the row under the cursor.
func (m *MatchSetupModel) cycle(delta int) {
	switch m.cursor {
	case 0:
		m.firstTo = wrap(m.firstTo+delta, len(firstToChoices))
	case 1:
		if m.mode == multiplayer.MatchModeVsCPU {
			m.preset = wrap(m.preset+delta, len(config.Presets))
		}
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// View renders the setup screen.
func (m MatchSetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "HOTSEAT MATCH"
	if m.mode == multiplayer.MatchModeVsCPU {
		title = "MATCH VS CPU"
	}
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	for i, row := range m.rows() {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Left/Right: Change  |  Enter: Start  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the setup, or nil if still choosing.
func (m MatchSetupModel) Selected() *MatchSetup {
	if m.choosing {
		return nil
	}
	return &MatchSetup{
		Mode:       m.mode,
		FirstTo:    firstToChoices[m.firstTo],
		Difficulty: config.Presets[m.preset],
	}
}

// IsQuitting returns true if user wants to quit.
func (m MatchSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m MatchSetupModel) WantsBack() bool {
	return m.back
}

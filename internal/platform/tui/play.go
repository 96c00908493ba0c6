package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-slide/internal/core"
	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/render"
	"github.com/vovakirdan/tui-slide/internal/sim"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

// flashDuration is how long a status message stays on screen.
const flashDuration = 3 * time.Second

// clearFlashMsg expires the status message with the matching sequence number.
type clearFlashMsg int

// PlayModel is the Bubble Tea model for playing one level.
type PlayModel struct {
	level      levels.Level
	board      *sim.Board
	screen     *core.Screen
	store      *storage.Store
	player     string
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	theme      Theme
	logger     *log.Logger
	agent      sim.AgentID
	flash      string
	flashSeq   int
	recorded   bool // Result stored for the current finished game
	quitting   bool
	backToMenu bool
}

// NewPlayModel creates a play model for level. When store holds a saved
// game for player on this level, the game is resumed.
func NewPlayModel(level levels.Level, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) PlayModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := []sim.Option{sim.WithLogger(logger.WithPrefix(level.ID))}
	if cfg.StepLimit > 0 {
		opts = append(opts, sim.WithStepLimit(cfg.StepLimit))
	}

	m := PlayModel{
		level:     level,
		board:     level.NewBoard(opts...),
		store:     store,
		player:    player,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		theme:     GetTheme(),
		logger:    logger,
	}
	m.screen = newBoardScreen(level, m.board)

	if store != nil {
		saved, err := store.LoadGame(level.ID, player)
		switch {
		case err != nil:
			logger.Warn("could not load saved game", "level", level.ID, "error", err)
		case saved != nil:
			if b, err := saved.Restore(level.Spec, opts...); err == nil && b.State() == sim.Running {
				m.board = b
				m.flash = fmt.Sprintf("Resumed saved game (%d turns)", b.Turns())
			}
		}
	}
	return m
}

// Init initializes the model.
func (m PlayModel) Init() tea.Cmd {
	if m.flash != "" {
		return m.expireFlash()
	}
	return nil
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case clearFlashMsg:
		if int(msg) == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if id, ok := m.keyMapper.AgentKey(msg); ok {
		if id < m.board.NumAgents() {
			m.agent = sim.AgentID(id)
		}
		return m, nil
	}

	action := m.keyMapper.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.backToMenu = true
		return m, nil
	case core.ActionNextAgent:
		m.agent = sim.AgentID(core.Wrap(int(m.agent)+1, m.board.NumAgents()))
		return m, nil
	case core.ActionPrevAgent:
		m.agent = sim.AgentID(core.Wrap(int(m.agent)-1, m.board.NumAgents()))
		return m, nil
	case core.ActionUndo:
		if !m.board.Undo() {
			return m.setFlash("Nothing to undo")
		}
		m.recorded = false
		return m, nil
	case core.ActionRestart:
		m.board.Restart()
		m.recorded = false
		return m.setFlash("Level restarted")
	case core.ActionSave:
		return m.save()
	}

	dx, dy, slide, ok := action.Heading()
	if !ok || m.board.State() != sim.Running {
		return m, nil
	}
	return m.play(directionOf(dx, dy), slide)
}

// play moves the selected agent when it can, otherwise slides its block.
func (m PlayModel) play(d sim.Direction, forceSlide bool) (tea.Model, tea.Cmd) {
	if !m.board.AgentPosition(m.agent).IsOnBoard() {
		return m.setFlash(fmt.Sprintf("Agent %d fell off the board", m.agent))
	}

	var out sim.Outcome
	if !forceSlide && m.board.CanMoveAgent(m.agent, d) {
		out = m.board.MoveAgent(m.agent, d)
	} else {
		out = m.board.SlideAgent(m.agent, d)
	}

	if len(out.Ejected) > 0 {
		m.flash = fmt.Sprintf("Agents %v fell off the board", out.Ejected)
	}
	if out.State != sim.Running {
		m.record()
	}
	return m, nil
}

// record stores the result of a finished game once and drops its save.
func (m *PlayModel) record() {
	if m.recorded || m.store == nil {
		return
	}
	m.recorded = true
	result := storage.Result{
		LevelID: m.level.ID,
		Player:  m.player,
		Won:     m.board.State() == sim.Won,
		Turns:   m.board.Turns(),
	}
	if _, err := m.store.SaveResult(result); err != nil {
		m.logger.Warn("could not save result", "level", m.level.ID, "error", err)
	}
	if err := m.store.DeleteGame(m.level.ID, m.player); err != nil {
		m.logger.Warn("could not delete saved game", "level", m.level.ID, "error", err)
	}
}

func (m PlayModel) save() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m.setFlash("Saving is unavailable without a database")
	}
	if m.board.State() != sim.Running {
		return m.setFlash("The game is over, nothing to save")
	}
	err := m.store.SaveGame(storage.SavedGame{
		LevelID: m.level.ID,
		Player:  m.player,
		Actions: m.board.Actions(),
	})
	if err != nil {
		m.logger.Warn("could not save game", "level", m.level.ID, "error", err)
		return m.setFlash("Save failed")
	}
	return m.setFlash(fmt.Sprintf("Saved after %d turns", m.board.Turns()))
}

func (m PlayModel) setFlash(text string) (tea.Model, tea.Cmd) {
	m.flash = text
	m.flashSeq++
	return m, m.expireFlash()
}

func (m PlayModel) expireFlash() tea.Cmd {
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg(seq)
	})
}

// directionOf maps a unit step to a board direction.
func directionOf(dx, dy int) sim.Direction {
	for _, d := range sim.Directions {
		if x, y := d.Delta(); x == dx && y == dy {
			return d
		}
	}
	return sim.DirNone
}

// newBoardScreen sizes a screen for the board plus a one cell frame that
// is wide enough for the level ID in its top edge.
func newBoardScreen(level levels.Level, v sim.View) *core.Screen {
	w, h := render.Size(v)
	w = max(w, len([]rune(frameTitle(level)))+2)
	return core.NewScreen(w+2, h+2)
}

func frameTitle(level levels.Level) string {
	return " " + level.ID + " "
}

// drawFrame clears the screen, draws the titled frame and returns the area
// the board goes in.
func (m PlayModel) drawFrame() core.Rect {
	m.screen.Clear()
	bounds := m.screen.Bounds()
	m.screen.DrawBox(bounds)
	m.screen.DrawTextCentered(0, frameTitle(m.level))

	w, h := render.Size(m.board)
	return bounds.Inset(1).Centered(w, h)
}

// View renders the board and HUD.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	area := m.drawFrame()
	render.Draw(m.screen, m.board, area.X, area.Y)
	render.Highlight(m.screen, m.board, m.agent, area.X, area.Y)

	sep := m.theme.HUDSeparator.Render("  |  ")
	header := m.theme.HUDTitle.Render(m.level.Title()) + sep +
		m.theme.HUDValue.Render(fmt.Sprintf("Turn %d", m.board.Turns())) + sep +
		m.theme.HUDValue.Render(fmt.Sprintf("Agent %d", m.agent))

	parts := []string{
		header,
		m.theme.HUDControls.Render(render.Status(m.board)),
		"",
		RenderScreen(m.screen),
		"",
	}

	switch m.board.State() {
	case sim.Won:
		parts = append(parts, m.theme.Won.Render(fmt.Sprintf("SOLVED in %d turns!", m.board.Turns())))
	case sim.Lost:
		parts = append(parts, m.theme.Lost.Render("Lost. Press u to undo or r to restart."))
	}
	if m.flash != "" {
		parts = append(parts, m.theme.HUDFlash.Render(m.flash))
	}

	if !m.config.Fits(m.screen.Width(), m.screen.Height()+6) {
		parts = append(parts, m.theme.HUDFlash.Render("Terminal is too small for this level"))
	}

	parts = append(parts, m.theme.HUDControls.Render(strings.Join([]string{
		"arrows: move/slide", "shift+arrows: slide", "tab/0-9: agent",
		"u: undo", "r: restart", "ctrl+s: save", "esc: menu", "q: quit",
	}, "  ")))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, content)
}

// Board exposes the board being played, read-only.
func (m PlayModel) Board() sim.View {
	return m.board
}

// SelectedAgent returns the agent the arrows currently control.
func (m PlayModel) SelectedAgent() sim.AgentID {
	return m.agent
}

// Flash returns the current status message.
func (m PlayModel) Flash() string {
	return m.flash
}

// IsQuitting returns true if the user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

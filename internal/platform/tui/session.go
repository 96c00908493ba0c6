package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-slide/internal/core"
	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenResults
)

// SessionModel manages the full flow: menu -> play or results -> menu.
// It backs both the local menu and every SSH session.
type SessionModel struct {
	levels   []levels.Level
	store    *storage.Store
	config   core.RuntimeConfig
	player   string
	logger   *log.Logger
	current  screen
	menu     MenuModel
	play     PlayModel
	results  ResultsModel
	quitting bool
}

// NewSessionModel creates a session over lvls for player.
func NewSessionModel(lvls []levels.Level, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) SessionModel {
	if player == "" {
		player = storage.LocalPlayer
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		levels: lvls,
		store:  store,
		config: cfg,
		player: player,
		logger: logger,
		menu:   NewMenuModel(lvls, store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.current {
	case screenPlay:
		return m.updatePlay(msg)
	case screenResults:
		return m.updateResults(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsResults() {
		m.current = screenResults
		m.results = NewResultsModel(m.levels, m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.results.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.logger.Info("level started", "player", m.player, "level", selected.ID)
		m.current = screenPlay
		m.play = NewPlayModel(*selected, m.store, m.config, m.player, m.logger)
		return m, m.play.Init()
	}

	return m, cmd
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if play, ok := next.(PlayModel); ok {
		m.play = play
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.play.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	if results, ok := next.(ResultsModel); ok {
		m.results = results
	}

	if m.results.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.results.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.current = screenMenu
	m.menu = NewMenuModel(m.levels, m.store, m.config)
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.current {
	case screenPlay:
		return m.play.View()
	case screenResults:
		return m.results.View()
	}
	return m.menu.View()
}

// Run starts the local menu session.
func Run(src LevelSource, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	lvls, err := src.LoadAll()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	model := NewSessionModel(lvls, store, cfg, storage.LocalPlayer, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// RunLevel plays a single level and returns when the player leaves it.
func RunLevel(level levels.Level, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewPlayModel(level, store, cfg, storage.LocalPlayer, logger)

	p := tea.NewProgram(levelOnly{model}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunResults shows the results screen on its own.
func RunResults(src LevelSource, store *storage.Store, cfg core.RuntimeConfig) error {
	lvls, err := src.LoadAll()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	p := tea.NewProgram(NewResultsModel(lvls, store, cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// levelOnly quits the program when the player goes back from a level
// started directly from the command line.
type levelOnly struct {
	PlayModel
}

func (m levelOnly) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.PlayModel.Update(msg)
	if play, ok := next.(PlayModel); ok {
		m.PlayModel = play
	}
	if m.BackToMenu() {
		return m, tea.Quit
	}
	return m, cmd
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-slide/internal/core"
	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

// LevelSource lists the playable levels. levels.Loader and levels.Stack
// both satisfy it.
type LevelSource interface {
	LoadAll() ([]levels.Level, error)
}

// MenuModel is the level picker.
type MenuModel struct {
	levels       []levels.Level
	stats        map[string]*storage.LevelStats
	cursor       int
	scrollOffset int
	width        int
	height       int
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	theme        Theme
	quitting     bool
	selected     *levels.Level
	wantsResults bool
}

// NewMenuModel creates a level picker over lvls. Stats are read from store
// when it is not nil.
func NewMenuModel(lvls []levels.Level, store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		levels:    lvls,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		theme:     GetTheme(),
	}
	if store != nil {
		if stats, err := store.AllLevelStats(); err == nil {
			m.stats = stats
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.updateScroll()
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}

	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
			m.updateScroll()
		}

	case MenuActionSelect:
		if len(m.levels) > 0 {
			selected := m.levels[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionResults:
		m.wantsResults = true
		return m, tea.Quit
	}

	return m, nil
}

// visibleItems is the number of level rows that fit between header and footer.
func (m MenuModel) visibleItems() int {
	return max(m.height-10, 3)
}

// updateScroll adjusts the scroll offset to keep the cursor visible.
func (m *MenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	m.scrollOffset = core.Clamp(m.scrollOffset, 0, max(len(m.levels)-visible, 0))
}

// View renders the level list.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("S  L  I  D  E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.MenuDescription.Render("Select a level:"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	end := min(m.scrollOffset+m.visibleItems(), len(m.levels))
	for i := m.scrollOffset; i < end; i++ {
		cursor := "  "
		style := m.theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}
		line := style.Render(fmt.Sprintf("%s%2d. %-24s %s", cursor, i+1, m.levels[i].Title(), m.bestLabel(m.levels[i].ID)))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	if end < len(m.levels) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	if len(m.levels) > 0 && m.levels[m.cursor].Description != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.MenuDescription.Render(m.levels[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := m.theme.HUDControls.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Results  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) bestLabel(id string) string {
	st, ok := m.stats[id]
	switch {
	case !ok:
		return "new"
	case st.BestTurns > 0:
		return fmt.Sprintf("best %d", st.BestTurns)
	default:
		return fmt.Sprintf("%d tries", st.Plays)
	}
}

// Selected returns the chosen level, or nil if none was chosen.
func (m MenuModel) Selected() *levels.Level {
	return m.selected
}

// IsQuitting returns true if the user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults returns true if the user asked for the results screen.
func (m MenuModel) WantsResults() bool {
	return m.wantsResults
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

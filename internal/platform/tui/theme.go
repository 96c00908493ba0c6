package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles shared by the menu, play and results screens.
type Theme struct {
	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style
	HUDFlash     lipgloss.Style

	// End of game banners
	Won  lipgloss.Style
	Lost lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDFlash:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),

		Won: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true).
			Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("46")).Padding(0, 2),
		Lost: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(0, 2),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeTheme returns a theme without colors, for dumb terminals.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	plain := lipgloss.NewStyle()
	theme.HUDTitle = plain.Bold(true)
	theme.HUDValue = plain
	theme.HUDFlash = plain.Italic(true)
	theme.Won = plain.Bold(true).Border(lipgloss.DoubleBorder()).Padding(0, 2)
	theme.Lost = plain.Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2)
	theme.MenuTitle = plain.Bold(true)
	theme.MenuItemActive = plain.Bold(true).Reverse(true)
	return theme
}

var currentTheme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(theme Theme) {
	currentTheme = theme
}

// GetTheme returns the current global theme.
func GetTheme() Theme {
	return currentTheme
}

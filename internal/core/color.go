package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI colors in the terminal front end.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorGray
)

var agentColors = []Color{ColorBrightCyan, ColorBrightMagenta, ColorBrightRed, ColorBrightBlue}

// AgentColor returns the color used to draw the given agent.
func AgentColor(id int) Color {
	return agentColors[Wrap(id, len(agentColors))]
}

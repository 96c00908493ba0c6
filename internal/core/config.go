package core

// RuntimeConfig describes the drawing surface handed to a play session.
type RuntimeConfig struct {
	ScreenW   int // Screen width in characters
	ScreenH   int // Screen height in characters
	StepLimit int // Slide step ceiling passed to the board, 0 for the default
}

// DefaultConfig returns a RuntimeConfig for a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}

// Fits reports whether a w x h drawing fits on the configured screen.
func (c RuntimeConfig) Fits(w, h int) bool {
	return w <= c.ScreenW && h <= c.ScreenH
}

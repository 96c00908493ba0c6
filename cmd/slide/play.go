package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-slide/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Play a level",
	Long: `Start playing the specified level. The argument is a level ID or the
path to a .toml or .yaml level file.

A saved game for the level is resumed automatically.

Controls:
  Arrows/hjkl/wasd  - Move the agent, or slide its block when it cannot move
  Shift+Arrows      - Slide the block under the agent
  Tab/Shift+Tab/0-9 - Select agent
  U/Z               - Undo
  R                 - Restart
  Ctrl+S            - Save
  Esc/B             - Leave the level
  Q/Ctrl+C          - Quit

Examples:
  slide play first-steps
  slide play ./levels/example0.toml
  slide play crossing --db ./slide.db`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	level, err := resolveLevel(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'slide list' to see available levels.")
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.RunLevel(level, store, runtimeConfig(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

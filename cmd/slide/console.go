package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-slide/internal/platform/console"
	"github.com/vovakirdan/tui-slide/internal/sim"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

var flagNoRecord bool

var consoleCmd = &cobra.Command{
	Use:   "console <level>",
	Short: "Play a level with plain text prompts",
	Long: `Play a level by answering questions on standard input: first the
agent number, then the direction (u, d, l, r). The agent moves when it
can and slides its block otherwise. Enter z to undo and q to quit.

Works with pipes, so a solution can be replayed from a file.

Examples:
  slide console example0
  slide console first-steps < solution.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runConsole,
}

func init() {
	consoleCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not store the result")
}

func runConsole(_ *cobra.Command, args []string) {
	level, err := resolveLevel(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []sim.Option{sim.WithLogger(logger.WithPrefix(level.ID))}
	if appConfig.StepLimit > 0 {
		opts = append(opts, sim.WithStepLimit(appConfig.StepLimit))
	}
	board := level.NewBoard(opts...)

	state, err := console.NewGame(board, os.Stdin, os.Stdout, logger).Run()
	if errors.Is(err, console.ErrQuit) {
		return
	}
	if flagNoRecord {
		return
	}

	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()

	_, err = store.SaveResult(storage.Result{
		LevelID: level.ID,
		Player:  storage.LocalPlayer,
		Won:     state == sim.Won,
		Turns:   board.Turns(),
	})
	if err != nil {
		logger.Warn("could not save result", "error", err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Validate level files",
	Long: `Load every level file under the given files or directories and report
each problem with its file and field. Levels that load are also built
into a board as a dry run.

Without arguments the --levels directory and the builtin levels are checked.

Examples:
  slide check
  slide check ./levels
  slide check ./levels/example0.toml ./levels/other.yaml`,
	Run: runCheck,
}

func runCheck(_ *cobra.Command, args []string) {
	var loaders []*levels.Loader
	var files []string

	if len(args) == 0 {
		loaders = levelSource()
	}
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if info.IsDir() {
			loaders = append(loaders, levels.NewDirLoader(p))
		} else {
			files = append(files, p)
		}
	}

	var problems []error
	var ok []levels.Level

	for _, l := range loaders {
		errs, err := l.Check()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		problems = append(problems, errs...)

		lvls, err := l.LoadAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		ok = append(ok, lvls...)
	}
	for _, p := range files {
		lvl, err := levels.LoadPath(p)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		ok = append(ok, lvl)
	}

	passed := 0
	for _, lvl := range ok {
		if err := dryRun(lvl); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", lvl.FilePath, err))
			continue
		}
		passed++
		fmt.Printf("  ok    %-16s %s\n", lvl.ID, lvl.FilePath)
	}
	for _, err := range problems {
		fmt.Printf("  FAIL  %v\n", err)
	}

	fmt.Println()
	fmt.Printf("%d ok, %d problems\n", passed, len(problems))
	if len(problems) > 0 {
		os.Exit(1)
	}
}

// dryRun builds the level's board and checks its bookkeeping.
func dryRun(lvl levels.Level) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if inv, ok := sim.AsInvariant(r); ok {
				err = inv
				return
			}
			panic(r)
		}
	}()
	return lvl.NewBoard().CheckInvariants()
}

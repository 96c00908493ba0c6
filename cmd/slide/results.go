package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-slide/internal/platform/tui"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

var (
	flagResultsLimit int
	flagInteractive  bool
	flagClear        bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show recorded results",
	Long: `Without arguments, summarize plays and wins of every level. With a
level ID, list its best winning runs (fewest turns first).

Examples:
  slide results
  slide results first-steps
  slide results first-steps --clear
  slide results -i`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVarP(&flagResultsLimit, "limit", "n", 10, "Number of results to show")
	resultsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse results in the terminal UI")
	resultsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the results of the level")
}

func runResults(_ *cobra.Command, args []string) {
	store, err := storage.Open(appConfig.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		if err := tui.RunResults(levelSource(), store, runtimeConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case len(args) == 0:
		printSummary(store)
	case flagClear:
		if err := store.ClearResults(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results of %s cleared.\n", args[0])
	default:
		printBest(store, args[0])
	}
}

func printSummary(store *storage.Store) {
	lvls, err := levelSource().LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	stats, err := store.AllLevelStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Results")
	fmt.Println()
	fmt.Printf("  %-16s  %-5s  %-4s  %-4s  %s\n", "Level", "Plays", "Wins", "Best", "Last played")
	fmt.Printf("  %-16s  %-5s  %-4s  %-4s  %s\n", "-----", "-----", "----", "----", "-----------")

	for _, l := range lvls {
		st, ok := stats[l.ID]
		if !ok {
			fmt.Printf("  %-16s  %-5d  %-4d  %-4s  %s\n", l.ID, 0, 0, "-", "never")
			continue
		}
		best := "-"
		if st.BestTurns > 0 {
			best = fmt.Sprintf("%d", st.BestTurns)
		}
		fmt.Printf("  %-16s  %-5d  %-4d  %-4s  %s\n", l.ID, st.Plays, st.Wins, best,
			st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}

func printBest(store *storage.Store, levelID string) {
	results, err := store.BestResults(levelID, flagResultsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Results - %s\n", levelID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No wins recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'slide play %s' to set the first result!\n", levelID)
		return
	}

	fmt.Printf("  %-4s  %-5s  %-12s  %s\n", "Rank", "Turns", "Player", "Date")
	fmt.Printf("  %-4s  %-5s  %-12s  %s\n", "----", "-----", "------", "----")

	for i, r := range results {
		fmt.Printf("  %-4d  %-5d  %-12s  %s\n", i+1, r.Turns, r.Player,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long:  `Shows every builtin level plus the levels found in --levels.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	lvls, err := levelSource().LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range lvls {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "ID", "Size", "Agents", "Title")
	fmt.Printf("  %-*s  %-7s  %-6s  %s\n", maxIDLen, "--", "----", "------", "-----")

	for _, l := range lvls {
		size := fmt.Sprintf("%dx%d", l.Spec.Width, l.Spec.Height)
		fmt.Printf("  %-*s  %-7s  %-6d  %s\n", maxIDLen, l.ID, size, l.Spec.NumAgents, l.Title())
	}

	fmt.Println()
	fmt.Println("Run 'slide play <id>' to play a level.")
}

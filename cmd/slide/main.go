// slide is a sliding-block puzzle game for the terminal.
//
// Usage:
//
//	slide                    - Pick a level from the menu
//	slide list               - List available levels
//	slide play <level>       - Play a level by ID or file path
//	slide console <level>    - Play a level with plain text prompts
//	slide check [paths...]   - Validate level files
//	slide results [level]    - Show recorded results
//	slide serve              - Start SSH server for remote play
//	slide web                - Start the HTTP API and websocket server
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.slide, ./configs)
//	--levels <dir>      - Extra level directory, searched before the builtin levels
//	--db <path>         - Database path (default: ~/.slide/slide.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-slide/internal/config"
	"github.com/vovakirdan/tui-slide/internal/core"
	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/platform/tui"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagLevelsDir  string
	flagDBPath     string
	flagLogLevel   string

	// Set up by loadConfig before any command runs.
	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slide",
	Short: "Slide - sliding-block puzzles in your terminal",
	Long: `Slide is a puzzle game about agents riding blocks across a grid.
Move an agent onto a neighbouring block, or slide the block it stands on
until something stops it. Get the right number of agents onto every goal.

Running slide without a command opens the level picker.

Available commands:
  list     - Show all available levels
  play     - Play a specific level directly
  console  - Play a level with plain text prompts
  check    - Validate level files
  results  - View recorded results
  serve    - Start SSH server for remote play
  web      - Start the HTTP API and websocket server

Examples:
  slide
  slide play first-steps
  slide play ./my-levels/tricky.toml
  slide console example0
  slide serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	Run:               runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Extra level directory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// loadConfig reads the config file and environment, then lets explicitly
// set flags win over both.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("levels") {
		cfg.LevelsDir = flagLevelsDir
	}
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	appConfig = cfg
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           cfg.Level(),
		Prefix:          "slide",
	})
	return nil
}

// levelSource searches the configured level directory first, then the
// builtin levels.
func levelSource() levels.Stack {
	var stack levels.Stack
	if appConfig.LevelsDir != "" {
		dir, err := config.ExpandHome(appConfig.LevelsDir)
		if err != nil {
			logger.Warn("could not expand levels directory", "dir", appConfig.LevelsDir, "error", err)
		} else {
			stack = append(stack, levels.NewDirLoader(dir))
		}
	}
	return append(stack, levels.Builtin())
}

// resolveLevel accepts either a level ID or a path to a level file.
func resolveLevel(arg string) (levels.Level, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return levels.LoadPath(arg)
	}
	return levelSource().LoadByID(arg)
}

// openStore opens the results database. Play continues without one.
func openStore() *storage.Store {
	store, err := storage.Open(appConfig.DBPath)
	if err != nil {
		logger.Warn("could not open results database, results and saves are disabled", "error", err)
		return nil
	}
	return store
}

// runtimeConfig sizes the play area to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.StepLimit = appConfig.StepLimit
	return cfg
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	// The alt screen owns the terminal, so the session logs nothing.
	if err := tui.Run(levelSource(), store, runtimeConfig(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

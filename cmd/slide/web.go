package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-slide/internal/transport/web"
)

var (
	flagWebAddr     string
	flagMaxSessions int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP API and websocket server",
	Long: `Serve levels and results as JSON and let clients play over websockets.

Endpoints:
  GET /api/levels               - List levels
  GET /api/levels/{id}          - Describe one level
  GET /api/levels/{id}/results  - Best winning runs (?limit=N)
  GET /ws/play/{id}?player=NAME - Websocket play session

Play sessions accept JSON commands such as
  {"type": "move", "agent": 0, "direction": "right"}
  {"type": "slide", "agent": 1, "direction": "up"}
  {"type": "undo"}, {"type": "restart"}, {"type": "state"}
and answer each with the full board state.

Examples:
  slide web
  slide web --addr 127.0.0.1:9000`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (host:port)")
	webCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", 0, "Maximum concurrent play sessions")
}

func runWeb(cmd *cobra.Command, _ []string) {
	cfg := web.Config{
		Address:        appConfig.Web.Address,
		AllowedOrigins: appConfig.Web.AllowedOrigins,
		PingInterval:   appConfig.Web.PingInterval,
		MaxSessions:    appConfig.Web.MaxSessions,
		StepLimit:      appConfig.StepLimit,
	}
	if cmd.Flags().Changed("addr") {
		cfg.Address = flagWebAddr
	}
	if cmd.Flags().Changed("max-sessions") {
		cfg.MaxSessions = flagMaxSessions
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	server := web.NewServer(cfg, levelSource(), store, logger.WithPrefix("slide-web"))

	fmt.Printf("Starting slide web server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

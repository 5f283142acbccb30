package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/creamcroissant/podwatch/internal/config"
	"github.com/creamcroissant/podwatch/internal/feed"
	"github.com/creamcroissant/podwatch/internal/support/logging"
	"github.com/creamcroissant/podwatch/internal/tui"
)

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Launch the live activity leaderboard",
	Long:  "Connect to a running podwatch server and render a decaying, ranked leaderboard from its activity feed.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "websocket feed URL (overrides feed.server_url)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	url := cfg.Feed.ServerURL
	if watchURL != "" {
		url = watchURL
	}

	// The TUI owns the terminal; route logs away from stdout noise.
	logger := logging.New(logging.Options{Level: cfg.Log.SlogLevel(), Format: "json"})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	aggregator := feed.NewAggregator(logger.With("component", "aggregator"))
	subscriber := feed.NewSubscriber(url, aggregator, logger.With("component", "subscriber"))

	go aggregator.Run(ctx)
	go subscriber.Run(ctx)

	model := tui.NewModel(aggregator, subscriber, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

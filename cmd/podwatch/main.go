package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "podwatch",
	Short: "Podwatch realtime node activity service",
	Long:  `Podwatch polls storage-network gossip mirrors, detects per-node activity and broadcasts it to dashboard clients.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

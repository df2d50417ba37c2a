package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host      string
	societyID string
	dryRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "oom-cli",
	Short: "A CLI to interact with the fairway-oom server",
	Long: `A command-line interface for making requests to the various endpoints
of the fairway-oom application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&societyID, "society", "", "Society to act on, the server default when empty")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server not to write or send anything")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

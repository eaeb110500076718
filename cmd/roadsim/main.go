package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-roadsim/pkg/logging"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.DefaultLogger().Error("roadsim failed", logging.Error(err))
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "roadsim",
		Short: "Drive a car along a road graph and watch for cost anomalies",
		Long: `roadsim moves a car along the edges of a road network. While the car is
between nodes a timer accrues travel cost; a traversal whose cost reaches
the anomaly threshold stops the timer and raises an anomaly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("graph", "", "CSV edge list to load instead of a random graph")
	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for graph generation and start node (0 keeps the configured seed)")
	rootCmd.PersistentFlags().Int64("start", -1, "Start node ID (-1 picks one at random)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSimulateCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "roadsim version %s\n", version)
			}
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Global flags
var (
	configPath   string
	verbose      bool
	outputFormat string
	noColor      bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dupesweep",
		Short: "Find and remove duplicate files",
		Long: `Walks a directory tree, groups files by content hash and deletes every copy
except the oldest one in each group.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml or ~/.config/dupesweep/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored prompts")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(filterCmd())
	rootCmd.AddCommand(presetsCmd())

	return rootCmd
}

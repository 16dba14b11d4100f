package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/noshowboard/internal/config"
)

var (
	// Global flags (wired to config via loadConfig)
	cfgFile    string
	debug      bool
	flagInput  string
	flagOutput string
	flagListen string

	// Loaded configuration
	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "noshowboard",
	Short: "noshowboard: clean the medical appointment no-show dataset and serve its dashboard",
	Long: `noshowboard ingests the medical appointment no-show CSV, drops invalid rows,
derives the waiting-time and attendance columns, persists the cleaned table
and serves the filterable chart aggregates to a dashboard frontend.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.noshowboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagInput, "input", "", "source CSV path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "cleaned CSV destination (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagListen, "listen", "", "listen address for serve (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: defaults still let path flags do the work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Config{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("input") && flagInput != "" {
		cfg.InputCSV = flagInput
	}
	if f.Changed("output") && flagOutput != "" {
		cfg.OutputCSV = flagOutput
	}
	if f.Changed("listen") && flagListen != "" {
		cfg.ListenAddr = flagListen
	}
}

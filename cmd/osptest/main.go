package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"osptest/internal/cli"
	"osptest/internal/cli/commands"
	"osptest/internal/config"
	_ "osptest/internal/selftest"
	"osptest/internal/xunit"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "osptest",
		Short:   "xUnit test runner and result aggregator",
		Long:    `Run registered xUnit test suites on one or more runners, write text or XML result files and keep the last run for review.`,
		Version: version,
	}

	// Create initial config with defaults, loaded before every command
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, xunit.Default())

	// Register all commands
	cmds.Register(rootCmd, &flags)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"osptest/internal/cli"
	"osptest/internal/discovery"
)

// ListCommand handles the list command
type ListCommand struct {
	*app
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	suites := discovery.NewFilter(cli.SelectorSpec(lc.cfg.Flags)).Apply(lc.registry.TestSuites())
	if len(suites) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	// Mark the failures of the last run, if there is one
	var failed map[string]struct{}
	if names, err := lastFailures(lc.storage); err == nil {
		failed = make(map[string]struct{}, len(names))
		for _, n := range names {
			failed[n] = struct{}{}
		}
	} else {
		lc.log.Debugw("no last run to mark failures from", "error", err)
	}

	lc.formatter.PrintTestList(suites, lc.cfg.Flags.TestCases, failed)
	return nil
}

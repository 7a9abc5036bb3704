package commands

import (
	"github.com/spf13/cobra"

	"osptest/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	*app
	viewer ui.Viewer
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return err
	}

	return fc.viewer.View(results)
}

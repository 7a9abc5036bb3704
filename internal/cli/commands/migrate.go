package commands

import (
	"github.com/spf13/cobra"

	"osptest/internal/migration"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	*app
}

func (mc *MigrateCommand) migrator() migration.Migrator {
	return migration.NewResultsMigrator(migration.NewDatabaseManager(mc.cfg), mc.log)
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	return mc.migrator().Run(cmd.Context())
}

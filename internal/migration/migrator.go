package migration

import "context"

// Migrator creates and upgrades the results database
type Migrator interface {
	Run(ctx context.Context) error
}

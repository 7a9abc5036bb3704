package domain

// MigrationResult represents the result of applying one schema statement
type MigrationResult struct {
	Name    string
	Success bool
	Error   error
}

package config

const (
	// DefaultProjectName names the project in reports
	DefaultProjectName = "osptest"
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is the YAML file looked up in the project path
	DefaultConfigFile = "osptest.yaml"
	// DefaultOutputJSONFile is the default last-run file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultRunners is the default number of concurrent runners
	DefaultRunners = 1
	// DefaultReportType is the default report format
	DefaultReportType = "txt"
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "info"
	// DefaultDatabaseName is the default results database
	DefaultDatabaseName = "osptest_results"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for reports
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	".git",
	"storage",
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osptest/internal/cli"
	"osptest/internal/config"
	"osptest/internal/logger"
	"osptest/internal/storage"
	"osptest/internal/ui"
	"osptest/internal/xunit"
)

// app holds what every command shares. The root command fills cfg and log
// before a subcommand runs.
type app struct {
	cfg       *config.Config
	log       *zap.SugaredLogger
	registry  *xunit.Registry
	storage   storage.Storage
	formatter *ui.Formatter
}

// Commands holds all CLI commands
type Commands struct {
	app *app

	Run     *RunCommand
	List    *ListCommand
	Migrate *MigrateCommand
	Faills  *FaillsCommand
	Summary *SummaryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, registry *xunit.Registry) *Commands {
	a := &app{
		cfg:       cfg,
		log:       logger.Nop(),
		registry:  registry,
		storage:   storage.NewJSONStorage(cfg),
		formatter: ui.NewFormatter(),
	}

	return &Commands{
		app:     a,
		Run:     &RunCommand{app: a},
		List:    &ListCommand{app: a},
		Migrate: &MigrateCommand{app: a},
		Faills:  &FaillsCommand{app: a, viewer: ui.NewErrorViewer(a.storage)},
		Summary: &SummaryCommand{app: a},
	}
}

// SetFormatter replaces the console formatter
func (c *Commands) SetFormatter(f *ui.Formatter) {
	c.app.formatter = f
}

// setup loads the configuration layers and builds the logger
func (c *Commands) setup(flags *cli.Flags) error {
	loaded, err := config.Load(flags.ToConfigFlags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	*c.app.cfg = *loaded

	log, err := logger.New(logger.Config{
		Level:    c.app.cfg.LogLevel,
		Filename: c.app.cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	c.app.log = log
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.setup(flags)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.app.log.Sync()
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ProjectPath, "project", "C", "", "Project directory holding osptest.yaml, .env and the results store")
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to the YAML config file (default <project>/osptest.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered test suites",
		Long:  "Execute the registered test suites on one or more runners and write the result file",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().StringVarP(&flags.Suite, "suite", "s", "", "Run only suites matching the pattern (supports wildcards)")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Comma separated selectors such as 'Math*,Db::Open*' (supports wildcards)")
	runCmd.Flags().StringVar(&flags.ReportType, "report", "", "Result file format: txt or xml")
	runCmd.Flags().StringVarP(&flags.ReportFile, "output", "o", "", "Result file path")
	runCmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "Overwrite an existing result file")
	runCmd.Flags().IntVarP(&flags.Runners, "runners", "r", 0, "Number of concurrent runners")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this textfile")
	runCmd.Flags().BoolVar(&flags.Publish, "publish", false, "Publish the run to the results database")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tests",
		Long:  "List the registered test suites without executing them",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Comma separated selectors such as 'Math*,Db::Open*' (supports wildcards)")
	listCmd.Flags().StringVarP(&flags.Suite, "suite", "s", "", "List only suites matching the pattern")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases of every suite")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the results database and tables",
		Long:  "Create the results database if missing and apply the results schema",
		Args:  cobra.NoArgs,
		RunE:  c.Migrate.Execute,
	})

	// Faills command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Faills.Execute,
	})

	// Summary command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "summary <report-file|dir>...",
		Short: "Summarize result files",
		Long:  "Parse text or XML result files and print their counts",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Summary.Execute,
	})
}

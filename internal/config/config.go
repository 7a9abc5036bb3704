package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"osptest/internal/domain"
)

// Config holds all configuration for the application. Values are layered:
// defaults, then osptest.yaml, then .env and the environment, then flags.
type Config struct {
	// Project settings
	ProjectName string `yaml:"project"`
	ProjectPath string `yaml:"-"`

	// Report settings
	ReportType string `yaml:"report_type"`
	ReportFile string `yaml:"report_file"`
	Overwrite  bool   `yaml:"overwrite"`

	// Output settings
	OutputJSONFile string `yaml:"output_json_file"`
	OutputJSONDir  string `yaml:"output_json_dir"`

	// Execution settings
	Runners  int  `yaml:"runners"`
	FailFast bool `yaml:"fail_fast"`

	// Logging and metrics
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsFile string `yaml:"metrics_file"`

	Database Database `yaml:"database"`

	// Paths to ignore when scanning for report files
	PathsToIgnore []string `yaml:"paths_to_ignore"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Database holds the results database connection
type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN returns the MySQL data source name, with the database when withName is set
func (d Database) DSN(withName bool) string {
	name := ""
	if withName {
		name = d.Name
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, name)
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	ConfigFile  string
	Runners     int
	Suite       string
	Filter      string
	ReportType  string
	ReportFile  string
	Overwrite   bool
	FailFast    bool
	OnlyFailed  bool
	OpenFaills  bool
	TestCases   bool
	Publish     bool
	MetricsFile string
	LogLevel    string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectName:    DefaultProjectName,
		ProjectPath:    DefaultProjectPath,
		ReportType:     DefaultReportType,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Runners:        DefaultRunners,
		LogLevel:       DefaultLogLevel,
		Database: Database{
			Host: "127.0.0.1",
			Port: "3306",
			User: "root",
			Name: DefaultDatabaseName,
		},
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, the YAML file, the environment and flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	if err := cfg.loadFile(flags.ConfigFile); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.applyFlags(flags)

	if _, err := domain.ParseReportType(cfg.ReportType); err != nil {
		return nil, err
	}
	if cfg.Runners <= 0 {
		cfg.Runners = DefaultRunners
	}
	return cfg, nil
}

// loadFile decodes the YAML config. A missing default file is not an error,
// a missing explicit one is.
func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnv applies .env from the project directory, then the process
// environment, which wins.
func (c *Config) loadEnv() error {
	env := map[string]string{}
	envPath := filepath.Join(c.ProjectPath, ".env")
	if values, err := godotenv.Read(envPath); err == nil {
		env = values
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", envPath, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	setString := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setString(&c.ProjectName, "OSPTEST_PROJECT")
	setString(&c.ReportType, "OSPTEST_REPORT_TYPE")
	setString(&c.ReportFile, "OSPTEST_REPORT_FILE")
	setString(&c.LogLevel, "OSPTEST_LOG_LEVEL")
	setString(&c.LogFile, "OSPTEST_LOG_FILE")
	setString(&c.MetricsFile, "OSPTEST_METRICS_FILE")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USERNAME")
	setString(&c.Database.Name, "OSPTEST_DB_DATABASE")
	if v, ok := lookup("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := lookup("OSPTEST_RUNNERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid OSPTEST_RUNNERS %q: %w", v, err)
		}
		c.Runners = n
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) {
	if flags.Runners > 0 {
		c.Runners = flags.Runners
	}
	if flags.ReportType != "" {
		c.ReportType = flags.ReportType
	}
	if flags.ReportFile != "" {
		c.ReportFile = flags.ReportFile
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	c.Overwrite = c.Overwrite || flags.Overwrite
	c.FailFast = c.FailFast || flags.FailFast
}

// GetReportType returns the parsed report type
func (c *Config) GetReportType() domain.ReportType {
	t, _ := domain.ParseReportType(c.ReportType)
	return t
}

// GetReportPath returns the report file path, relative paths resolved against the project
func (c *Config) GetReportPath() string {
	if c.ReportFile == "" || filepath.IsAbs(c.ReportFile) {
		return c.ReportFile
	}
	return filepath.Join(c.ProjectPath, c.ReportFile)
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

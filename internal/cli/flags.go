package cli

import (
	"strings"

	"osptest/internal/config"
	"osptest/internal/discovery"
)

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	ConfigFile  string
	LogLevel    string
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
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath: f.ProjectPath,
		ConfigFile:  f.ConfigFile,
		LogLevel:    f.LogLevel,
		Runners:     f.Runners,
		Suite:       f.Suite,
		Filter:      f.Filter,
		ReportType:  f.ReportType,
		ReportFile:  f.ReportFile,
		Overwrite:   f.Overwrite,
		FailFast:    f.FailFast,
		OnlyFailed:  f.OnlyFailed,
		OpenFaills:  f.OpenFaills,
		TestCases:   f.TestCases,
		Publish:     f.Publish,
		MetricsFile: f.MetricsFile,
	}
}

// SelectorSpec combines --suite and --filter into a selector list. The
// suite pattern applies to every case selector of the filter.
func SelectorSpec(flags config.Flags) string {
	if flags.Suite == "" {
		return flags.Filter
	}
	if flags.Filter == "" {
		return flags.Suite
	}
	var spec []string
	for _, sel := range discovery.ParseSelectors(flags.Filter) {
		name := sel.Case
		if name == "" {
			name = sel.Suite
		}
		spec = append(spec, flags.Suite+discovery.CaseSeparator+name)
	}
	return strings.Join(spec, ",")
}

package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/cli"
	"osptest/internal/config"
	"osptest/internal/ui"
	"osptest/internal/xunit"
)

func init() {
	color.NoColor = true
}

func mathRegistry(t *testing.T) *xunit.Registry {
	t.Helper()
	reg := xunit.NewRegistry()
	require.NoError(t, reg.Register("Math", func() *xunit.TestSuite {
		return xunit.Build(xunit.NewFixture("Math")).
			Simple("Add", func(t *xunit.T) { xunit.AssertEqual(t, 2, 1+1) }).
			Simple("Div", func(t *xunit.T) { t.Assert(false, "x == 2") }).
			Suite()
	}))
	require.NoError(t, reg.Register("Strings", func() *xunit.TestSuite {
		return xunit.Build(xunit.NewFixture("Strings")).
			Simple("Concat", func(t *xunit.T) {}).
			Suite()
	}))
	return reg
}

// execute runs one command line against a fresh root command
func execute(t *testing.T, reg *xunit.Registry, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	var flags cli.Flags
	cmds := NewCommands(config.New(), reg)
	cmds.SetFormatter(ui.NewFormatterTo(&buf))

	root := &cobra.Command{Use: "osptest"}
	cmds.Register(root, &flags)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	reg := mathRegistry(t)

	out, err := execute(t, reg, "run", "-C", dir, "-o", "report.txt", "--log-level", "error")
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "Math")

	data, err := os.ReadFile(filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\t[O] Add (")
	assert.Contains(t, string(data), "\t[F] Div - x == 2")
	assert.Contains(t, string(data), "\t[O] Concat (")

	_, err = os.Stat(filepath.Join(dir, config.DefaultOutputJSONDir, config.DefaultOutputJSONFile))
	require.NoError(t, err)

	// the result file already exists
	_, err = execute(t, reg, "run", "-C", dir, "-o", "report.txt", "--log-level", "error")
	assert.ErrorContains(t, err, "write result file")

	// rerun only the failure of the last run
	_, err = execute(t, reg, "run", "-C", dir, "-o", "failed.xml", "--report", "xml", "--failed", "--log-level", "error")
	require.ErrorIs(t, err, ErrTestsFailed)

	data, err = os.ReadFile(filepath.Join(dir, "failed.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `runs="1/2"`)
	assert.NotContains(t, string(data), "Concat")
}

func TestRunCommand_Selection(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    []string
		notWant []string
	}{
		{
			name:    "suite",
			args:    []string{"-s", "Str*"},
			want:    []string{"[O] Concat"},
			notWant: []string{"Math"},
		},
		{
			name:    "suite and case",
			args:    []string{"-s", "Math", "-f", "Add"},
			want:    []string{"[O] Add", "[X] Div - filtered"},
			notWant: []string{"Strings"},
		},
		{
			name:    "case selector",
			args:    []string{"-f", "::Div"},
			wantErr: true,
			want:    []string{"[F] Div", "[X] Add - filtered"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"run", "-C", dir, "-o", "report.txt", "--log-level", "error"}, tt.args...)
			_, err := execute(t, mathRegistry(t), args...)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTestsFailed)
			} else {
				require.NoError(t, err)
			}

			data, err := os.ReadFile(filepath.Join(dir, "report.txt"))
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(data), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, string(data), w)
			}
		})
	}
}

func TestRunCommand_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "osptest.prom")

	_, err := execute(t, mathRegistry(t), "run", "-C", dir, "-s", "Strings", "--metrics-file", metrics, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "osptest_cases_total")
}

func TestRunCommand_NoTests(t *testing.T) {
	_, err := execute(t, mathRegistry(t), "run", "-C", t.TempDir(), "-s", "Nothing", "--log-level", "error")
	assert.NoError(t, err)
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, mathRegistry(t), "list", "-C", t.TempDir(), "-c")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 suite(s) with 3 test case(s)")
	assert.Contains(t, out, "├── Math")
	assert.Contains(t, out, "│   └── Div")
	assert.Contains(t, out, "└── Strings")
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, mathRegistry(t), "run", "-C", dir, "-o", "report.txt", "--log-level", "error")
	require.ErrorIs(t, err, ErrTestsFailed)

	out, err := execute(t, mathRegistry(t), "summary", "-C", dir, filepath.Join(dir, "report.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "3/3 run, 2 success, 1 fail, 0 error, 0 not run")

	_, err = execute(t, mathRegistry(t), "summary", "-C", dir, filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestInvalidReportType(t *testing.T) {
	_, err := execute(t, mathRegistry(t), "run", "-C", t.TempDir(), "--report", "json")
	assert.ErrorContains(t, err, "load config")
}

func TestSelectorSpec(t *testing.T) {
	tests := []struct {
		name  string
		flags config.Flags
		want  string
	}{
		{"none", config.Flags{}, ""},
		{"filter only", config.Flags{Filter: "Math::Add"}, "Math::Add"},
		{"suite only", config.Flags{Suite: "Math"}, "Math"},
		{"suite and cases", config.Flags{Suite: "Math", Filter: "Add,::Div"}, "Math::Add,Math::Div"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.SelectorSpec(tt.flags))
		})
	}
}

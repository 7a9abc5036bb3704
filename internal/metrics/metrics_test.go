package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/xunit"
)

func runSuite(t *testing.T, rec *Recorder) *xunit.TestResult {
	t.Helper()
	s := xunit.NewTestSuite("Math")
	s.AddTestCase(xunit.NewTestCase("Add", func(t *xunit.T) {}))
	s.AddTestCase(xunit.NewTestCase("Div", func(t *xunit.T) { t.Fail("nope") }))

	runner := xunit.NewRunner()
	runner.AddListener(rec)
	require.NoError(t, runner.AddTestSuite(s))
	result := xunit.NewTestResult("calc")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, runner.Start(ctx, result))
	require.NoError(t, runner.Wait())
	return result
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder("calc")
	result := runSuite(t, rec)
	rec.RecordRun(result)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.casesTotal.WithLabelValues("calc", "Math", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.casesTotal.WithLabelValues("calc", "Math", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.suitesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.runResults.WithLabelValues("calc", result.RunID(), "fail")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec := NewRecorder("calc")
	runSuite(t, rec)

	path := filepath.Join(t.TempDir(), "osptest.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "osptest_cases_total"))
}

package selftest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osptest/internal/xunit"
)

func TestRegisteredSuitesPass(t *testing.T) {
	assert.Equal(t, []string{"Report", "Selection", "Engine"}, xunit.Default().Names())

	runner := xunit.NewRunner()
	require.NoError(t, runner.AddTestSuites(xunit.Default().TestSuites()...))
	result := xunit.NewTestResult("selftest")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, runner.Start(ctx, result))
	require.NoError(t, runner.Wait())

	assert.Empty(t, result.FailureData())
	assert.Empty(t, result.FixtureErrors())
	assert.Equal(t, 10, result.NumberOfSuccesses())
	assert.Equal(t, result.TotalNumberOfTestCases(), result.NumberOfRuns())
}

package xunit

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"osptest/internal/assert"
)

// T is handed to every test body. Assert* methods abort the body on
// failure, Check* methods record the failure and let the body continue.
type T struct {
	name     string
	asserter *assert.Asserter

	mu     sync.Mutex
	fault  error
	output strings.Builder
}

func newT(name string, register *assert.Register) *T {
	t := &T{name: name}
	t.asserter = assert.New(register, runtime.Goexit)
	return t
}

// Name returns the name of the running test case
func (t *T) Name() string { return t.name }

// Asserter exposes the underlying asserter for callers that track their own call sites
func (t *T) Asserter() *assert.Asserter { return t.asserter }

// Assert aborts the body if condition is false. expr is the source text of
// the condition and ends up in the failure message.
func (t *T) Assert(condition bool, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.True(assert.ConditionMessage(expr), condition, file, line, false)
}

// Check records a failure if condition is false and continues
func (t *T) Check(condition bool, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.True(assert.ConditionMessage(expr), condition, file, line, true)
}

// AssertFalse aborts the body if condition is true
func (t *T) AssertFalse(condition bool, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.False(assert.NegatedConditionMessage(expr), condition, file, line, false)
}

// CheckFalse records a failure if condition is true
func (t *T) CheckFalse(condition bool, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.False(assert.NegatedConditionMessage(expr), condition, file, line, true)
}

// Fail records a failure and aborts the body
func (t *T) Fail(message string) {
	file, line := assert.Caller(1)
	t.asserter.Fail(message, file, line, false)
}

// Failf is Fail with a format string
func (t *T) Failf(format string, args ...any) {
	file, line := assert.Caller(1)
	t.asserter.Fail(fmt.Sprintf(format, args...), file, line, false)
}

// Checkf records a failure with a format string and continues
func (t *T) Checkf(format string, args ...any) {
	file, line := assert.Caller(1)
	t.asserter.Fail(fmt.Sprintf(format, args...), file, line, true)
}

// Error ends the body with an Error outcome. Use it for faults that are not
// assertion mismatches, e.g. an unexpected error from the code under test.
// A nil err is a no-op.
func (t *T) Error(err error) {
	if err == nil {
		return
	}
	file, line := assert.Caller(1)
	t.raise(err, file, line)
}

// raise records err as the case fault and ends the body
func (t *T) raise(err error, file string, line int) {
	t.setFault(err)
	t.asserter.Error(err.Error(), file, line)
	runtime.Goexit()
}

func (t *T) setFault(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fault = err
}

// AssertNull aborts the body unless value is nil
func (t *T) AssertNull(value any, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.Null(expr+" is not null", value, file, line, false)
}

// AssertNotNull aborts the body if value is nil
func (t *T) AssertNotNull(value any, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.NotNull(expr+" is null", value, file, line, false)
}

// CheckNull records a failure unless value is nil
func (t *T) CheckNull(value any, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.Null(expr+" is not null", value, file, line, true)
}

// CheckNotNull records a failure if value is nil
func (t *T) CheckNotNull(value any, expr string) bool {
	file, line := assert.Caller(1)
	return t.asserter.NotNull(expr+" is null", value, file, line, true)
}

// Log appends a line to the case output
func (t *T) Log(args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.output.WriteString(fmt.Sprintln(args...))
}

// Logf appends a formatted line to the case output
func (t *T) Logf(format string, args ...any) {
	t.Log(fmt.Sprintf(format, args...))
}

func (t *T) faultErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fault
}

func (t *T) logs() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.output.String()
}

// AssertEqual aborts the body unless expected == actual. Floats compare exactly.
func AssertEqual[V comparable](t *T, expected, actual V) bool {
	file, line := assert.Caller(1)
	return assert.Equal(t.asserter, "", expected, actual, file, line, false)
}

// CheckEqual records a failure unless expected == actual
func CheckEqual[V comparable](t *T, expected, actual V) bool {
	file, line := assert.Caller(1)
	return assert.Equal(t.asserter, "", expected, actual, file, line, true)
}

// AssertEqualDelta aborts the body if |expected-actual| > delta
func AssertEqualDelta[V assert.Number](t *T, expected, actual, delta V) bool {
	file, line := assert.Caller(1)
	return assert.EqualDelta(t.asserter, "", expected, actual, delta, file, line, false)
}

// CheckEqualDelta records a failure if |expected-actual| > delta
func CheckEqualDelta[V assert.Number](t *T, expected, actual, delta V) bool {
	file, line := assert.Caller(1)
	return assert.EqualDelta(t.asserter, "", expected, actual, delta, file, line, true)
}

// AssertDeepEqual aborts the body unless expected and actual are deeply equal
func AssertDeepEqual(t *T, expected, actual any) bool {
	file, line := assert.Caller(1)
	return assert.DeepEqual(t.asserter, "", expected, actual, file, line, false)
}

// CheckDeepEqual records a failure unless expected and actual are deeply equal
func CheckDeepEqual(t *T, expected, actual any) bool {
	file, line := assert.Caller(1)
	return assert.DeepEqual(t.asserter, "", expected, actual, file, line, true)
}

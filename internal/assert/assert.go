// Package assert records assertion outcomes keyed by their call site.
//
// Every assertion takes the message, the call site and an isCheck flag. A
// failed hard assertion (isCheck false) records a Fail and then calls the
// Asserter's abort function, which unwinds the running test body. A failed
// check records a Check and returns, so several checks may fail within one
// body.
package assert

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/google/go-cmp/cmp"

	"osptest/internal/domain"
)

// Asserter pushes assertion records into a Register
type Asserter struct {
	register *Register
	abort    func()
}

// New creates an Asserter writing into register; abort is invoked after a
// failed hard assertion and must not return to the caller.
func New(register *Register, abort func()) *Asserter {
	return &Asserter{register: register, abort: abort}
}

// Register returns the register the asserter writes to
func (a *Asserter) Register() *Register { return a.register }

// Caller returns the file and line of the caller skip frames above Caller's
// own caller.
func Caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", 0
	}
	return file, line
}

// ConditionMessage is the failure message of a false condition
func ConditionMessage(expr string) string {
	return fmt.Sprintf("The condition(%s) is false", expr)
}

// NegatedConditionMessage is the failure message of a condition expected to be false
func NegatedConditionMessage(expr string) string {
	return fmt.Sprintf("The condition(%s) is true", expr)
}

func (a *Asserter) pass(filePath string, lineNum int) bool {
	a.register.Push(domain.AssertRecord{Kind: domain.AssertSuccess, FilePath: filePath, LineNum: lineNum})
	return true
}

// Fail unconditionally records a failure. With isCheck false it aborts the
// running test body.
func (a *Asserter) Fail(message, filePath string, lineNum int, isCheck bool) {
	kind := domain.AssertFail
	if isCheck {
		kind = domain.AssertCheck
	}
	a.register.Push(domain.AssertRecord{Kind: kind, Message: message, FilePath: filePath, LineNum: lineNum})
	if !isCheck && a.abort != nil {
		a.abort()
	}
}

// Error records a fault that is not an assertion mismatch. It never aborts;
// the caller decides how to unwind.
func (a *Asserter) Error(message, filePath string, lineNum int) {
	a.register.Push(domain.AssertRecord{Kind: domain.AssertError, Message: message, FilePath: filePath, LineNum: lineNum})
}

// True fails iff condition is false
func (a *Asserter) True(message string, condition bool, filePath string, lineNum int, isCheck bool) bool {
	if condition {
		return a.pass(filePath, lineNum)
	}
	a.Fail(message, filePath, lineNum, isCheck)
	return false
}

// False fails iff condition is true
func (a *Asserter) False(message string, condition bool, filePath string, lineNum int, isCheck bool) bool {
	return a.True(message, !condition, filePath, lineNum, isCheck)
}

// Throw records a mismatch between the expected and the actual panic type
func (a *Asserter) Throw(message, expected, actual string, filePath string, lineNum int, isCheck bool) {
	msg := fmt.Sprintf("expected exception <%s>, actual <%s>", expected, actual)
	if message != "" {
		msg = message + ": " + msg
	}
	a.Fail(msg, filePath, lineNum, isCheck)
}

// Null fails iff value is not nil
func (a *Asserter) Null(message string, value any, filePath string, lineNum int, isCheck bool) bool {
	if IsNil(value) {
		return a.pass(filePath, lineNum)
	}
	a.Fail(withDefault(message, fmt.Sprintf("expected nil, actual <%v>", value)), filePath, lineNum, isCheck)
	return false
}

// NotNull fails iff value is nil
func (a *Asserter) NotNull(message string, value any, filePath string, lineNum int, isCheck bool) bool {
	if !IsNil(value) {
		return a.pass(filePath, lineNum)
	}
	a.Fail(withDefault(message, "expected a non-nil value"), filePath, lineNum, isCheck)
	return false
}

// IsNil reports whether v is nil or a typed nil of a nillable kind
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// Equal fails iff expected != actual. Floating point values are compared
// exactly; use EqualDelta for a tolerance.
func Equal[V comparable](a *Asserter, message string, expected, actual V, filePath string, lineNum int, isCheck bool) bool {
	if expected == actual {
		return a.pass(filePath, lineNum)
	}
	a.Fail(mismatch(message, expected, actual), filePath, lineNum, isCheck)
	return false
}

// Number is the set of types EqualDelta accepts
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// EqualDelta fails iff |expected-actual| > delta
func EqualDelta[V Number](a *Asserter, message string, expected, actual, delta V, filePath string, lineNum int, isCheck bool) bool {
	diff := float64(expected) - float64(actual)
	if diff < 0 {
		diff = -diff
	}
	if diff <= float64(delta) {
		return a.pass(filePath, lineNum)
	}
	msg := fmt.Sprintf("expected <%v>, actual <%v>, delta <%v>", expected, actual, delta)
	if message != "" {
		msg = message + ": " + msg
	}
	a.Fail(msg, filePath, lineNum, isCheck)
	return false
}

// DeepEqual compares values that are not comparable with == and reports a
// diff on mismatch.
func DeepEqual(a *Asserter, message string, expected, actual any, filePath string, lineNum int, isCheck bool) bool {
	if cmp.Equal(expected, actual, allUnexported) {
		return a.pass(filePath, lineNum)
	}
	msg := "values differ (-expected +actual):\n" + cmp.Diff(expected, actual, allUnexported)
	if message != "" {
		msg = message + ": " + msg
	}
	a.Fail(msg, filePath, lineNum, isCheck)
	return false
}

// allUnexported lets cmp descend into unexported struct fields instead of panicking
var allUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

func mismatch(message string, expected, actual any) string {
	msg := fmt.Sprintf("expected <%s>, actual <%s>", show(expected), show(actual))
	if message != "" {
		return message + ": " + msg
	}
	return msg
}

func show(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func withDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

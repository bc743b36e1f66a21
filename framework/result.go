package framework

import (
	"strings"
)

// Results is the accumulated outcome of a test run.
//
// Tests contains one entry per executed test case (leaf scope), in execution order.
// Failures contains the subset of those that failed, plus any non-leaf scope that
// failed directly (for instance, from a panic in group setup code).
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test scope.
type TestResult struct {
	TestID TestID
	Failed bool
	Errors []error
}

// OK returns true if the whole run passed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of passed test cases and the number executed.
func (r Results) Counts() (passed, total int) {
	total = len(r.Tests)
	for _, t := range r.Tests {
		if !t.Failed {
			passed++
		}
	}
	return
}

// TestID identifies a test scope by its path of names, such as
// "CRUD operations/delete session".
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

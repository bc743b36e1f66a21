package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents a scope within a test run. It is used similarly to Go's
// *testing.T: it has a Run method for subscopes, Errorf/FailNow for reporting
// failures, and it satisfies the TestingT interfaces of the assert and require
// packages.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	hasSubtests bool
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes a function in a root Context and returns the accumulated results.
// The filter, if non-nil, decides which scopes are executed; the testLogger, if
// non-nil, receives progress events.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	if c.failed {
		c.record()
	}
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				// FailNow was called; the failure has already been recorded unless
				// the test somehow failed without a message.
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

func (c *Context) record() {
	result := TestResult{TestID: c.id, Failed: c.failed, Errors: c.errors}
	if !c.hasSubtests {
		c.env.results.Tests = append(c.env.results.Tests, result)
	}
	if c.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
}

// ID returns the full path identifying this scope.
func (c *Context) ID() TestID {
	return c.id
}

// Run executes a named subscope. A failure inside the subscope is recorded in the
// results but does not affect this scope or any sibling.
func (c *Context) Run(name string, action func(*Context)) {
	c.hasSubtests = true
	id := c.id.child(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	c1.record()
	c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
}

func (t TestID) child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

// Errorf reports a failure without terminating the current scope.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow terminates the current scope immediately. It should normally be preceded
// by Errorf, or used indirectly through the require package.
func (c *Context) FailNow() {
	panic(c)
}

// Skip terminates the current scope without recording a result.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug writes a message to the scope's debug log, which is shown or discarded
// at the reporter's discretion.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns the scope's debug log as a Logger, for passing to
// components that want to log while the scope runs.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

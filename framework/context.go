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
	harness    *TestHarness
}

// Context is the state of one test or subtest. It implements the same methods as Go's
// *testing.T that testify's assert and require packages rely on, so a *Context can be
// passed to any assertion.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run runs the root of a test tree. The action typically calls Context.Run once per test
// group; each group and test is reported to testLogger and can be excluded by filter.
func Run(
	harness *TestHarness,
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
		harness:    harness,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
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
		}
		c.runCleanups()
		if len(c.id.Path) == 0 {
			return // the root context is only a container
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// ID returns the full identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Harness returns the session-scoped test harness.
func (c *Context) Harness() *TestHarness {
	return c.env.harness
}

// Run runs a subtest. The action receives a new Context; a failure in the subtest does not
// stop the parent.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

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
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. It is called by the require package.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

// Failed reports whether the test has failed.
func (c *Context) Failed() bool {
	return c.failed
}

// Helper is a no-op that lets testify treat Context like *testing.T.
func (c *Context) Helper() {}

// Skip stops the test and marks it as skipped.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the test ends, whether it passed or not. Deferred
// functions run in reverse order.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// Debug adds a line to this test's debug output.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Skipped returns the number of tests that were skipped from inside the test.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest of this test.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a summary of the test run, listing each failed test with its errors.
func PrintResults(out io.Writer, results Results) {
	failColor := color.New(color.FgRed, color.Bold)
	okColor := color.New(color.FgGreen, color.Bold)

	if results.OK() {
		okColor.Fprintf(out, "All tests passed")
		fmt.Fprintf(out, " (%d run, %d skipped)\n", len(results.Tests), results.Skipped())
		return
	}
	failColor.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nominatim-qa/geocode-contract-tests/framework"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

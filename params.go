package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nominatim-qa/geocode-contract-tests/config"
	"github.com/nominatim-qa/geocode-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	serviceURL      string
	userAgent       string
	requestInterval time.Duration
	statusTimeout   time.Duration
	filters         framework.RegexFilters
	debug           bool
	debugAll        bool
}

// Read parses the command line. Defaults come from cfg, so flags override the config file and
// environment.
func (c *commandParams) Read(args []string, cfg *config.Config, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", cfg.URL, "base URL of the geocoding service")
	fs.StringVar(&c.userAgent, "user-agent", cfg.UserAgent, "User-Agent header to send")
	fs.DurationVar(&c.requestInterval, "request-interval", cfg.RequestInterval,
		"minimum time between requests, 0 to disable")
	fs.DurationVar(&c.statusTimeout, "status-timeout", cfg.StatusTimeout,
		"how long to wait for the service to respond at startup")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.serviceURL == "" {
		fmt.Fprintln(errOut, "--url must not be empty")
		fs.Usage()
		return false
	}
	if c.requestInterval < 0 {
		fmt.Fprintln(errOut, "--request-interval must not be negative")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a command line that runs only the given tests, with the same settings.
func (c *commandParams) rerunCommand(program string, tests []framework.TestResult) string {
	var b commandBuilder
	b.add(program,
		"--url", c.serviceURL,
		"--user-agent", c.userAgent,
		"--request-interval", c.requestInterval.String(),
	)
	for _, t := range tests {
		b.add("--run", exactPattern(t.TestID))
	}
	if c.debugAll {
		b.add("--debug-all")
	} else {
		b.add("--debug")
	}
	return b.String()
}

// exactPattern returns a --run pattern that matches only the given test and its subtests.
func exactPattern(id framework.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(parts, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

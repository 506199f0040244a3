package main

import (
	"fmt"
	"log"
	"os"

	"github.com/nominatim-qa/geocode-contract-tests/config"
	"github.com/nominatim-qa/geocode-contract-tests/framework"
	"github.com/nominatim-qa/geocode-contract-tests/geocodetests"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}

	var params commandParams
	if !params.Read(os.Args, cfg, os.Stderr) {
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(framework.HarnessOptions{
		ServiceURL:         params.serviceURL,
		UserAgent:          params.userAgent,
		RequestInterval:    params.requestInterval,
		StatusQueryTimeout: params.statusTimeout,
		DebugLogger:        mainDebugLogger,
		StartupOutput:      os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Geocoding service error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := geocodetests.RunTestSuite(harness, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests again:")
		fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], results.Failures))
		os.Exit(1)
	}
}

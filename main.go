package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/client"
	"github.com/steel-dev/orchestrator-contract-tests/contracttests"
	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"github.com/fatih/color"
)

const healthQueryTimeout = time.Second * 10

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	orchClient := client.NewOrchestratorClient(params.serviceURL, mainDebugLogger)

	fmt.Printf("Connecting to orchestrator at %s\n", params.serviceURL)
	if err := orchClient.WaitForHealthy(healthQueryTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator unreachable: %s\n", err)
		os.Exit(1)
	}
	if status, err := orchClient.Status(); err == nil {
		fmt.Printf("Orchestrator pool: %d workers (%d available), %d active sessions\n",
			status.WorkerCount, status.AvailableWorkers, status.ActiveSessions)
	}

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := contracttests.RunTestSuite(orchClient, params.suiteOpts(), params.filters.AsFilter, testLogger)

	fmt.Println()
	printResults(results)
	if !results.OK() {
		printRerunCommand(params, results)
		os.Exit(1)
	}
}

func printResults(results framework.Results) {
	passed, total := results.Counts()
	summary := fmt.Sprintf("RESULTS: %d/%d passed", passed, total)
	if results.OK() {
		color.New(color.FgGreen, color.Bold).Println(summary)
	} else {
		color.New(color.FgRed, color.Bold).Println(summary)
	}
}

func printRerunCommand(params commandParams, results framework.Results) {
	var b commandBuilder
	b.add(os.Args[0], "-url", params.serviceURL)
	for _, f := range results.Failures {
		b.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	fmt.Println()
	fmt.Println("To re-run only the failed tests:")
	fmt.Printf("  %s\n", b)
}

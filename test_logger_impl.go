package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"github.com/fatih/color"
)

var (
	groupStyle = color.New(color.Bold)
	passStyle  = color.New(color.FgGreen)
	failStyle  = color.New(color.FgRed)
)

// ConsoleTestLogger reports progress on standard output: a header per group, a
// pass/fail line per case, and indented diagnostics as failures occur. Captured
// debug output is dumped according to the two flags.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	if len(id.Path) == 1 {
		fmt.Println()
		groupStyle.Printf("  %s\n", id)
	}
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failStyle.Printf("      %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if len(id.Path) > 1 {
		name := id.Path[len(id.Path)-1]
		if failed {
			failStyle.Printf("    ✗ %s\n", name)
		} else {
			passStyle.Printf("    ✓ %s\n", name)
		}
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "      DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Printf("    SKIPPED: %s\n", id)
	} else {
		fmt.Printf("    SKIPPED: %s (%s)\n", id, reason)
	}
}

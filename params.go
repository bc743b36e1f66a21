package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/contracttests"
	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"github.com/alessio/shellescape"
)

const defaultServiceURL = "http://localhost:8080"

type commandParams struct {
	serviceURL    string
	filters       framework.RegexFilters
	debug         bool
	debugAll      bool
	ttlWait       time.Duration
	settleDelay   time.Duration
	recoveryGrace time.Duration
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.serviceURL, "url", defaultServiceURL, "orchestrator base URL")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.DurationVar(&c.ttlWait, "ttl-wait", contracttests.DefaultTTLWait,
		"how long the TTL scenario waits before asserting expiry")
	fs.DurationVar(&c.settleDelay, "settle-delay", contracttests.DefaultSettleDelay,
		"pause between freeing workers and reusing them in the recovery scenario")
	fs.DurationVar(&c.recoveryGrace, "recovery-grace", contracttests.DefaultRecoveryGrace,
		"how long to allow for crash detection and worker restart")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

func (c commandParams) suiteOpts() contracttests.SuiteOpts {
	return contracttests.SuiteOpts{
		TTLWait:       c.ttlWait,
		SettleDelay:   c.settleDelay,
		RecoveryGrace: c.recoveryGrace,
	}
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

package contracttests

import (
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/client"
	"github.com/steel-dev/orchestrator-contract-tests/framework"
)

// Defaults for the suite's timing and sizing knobs. The durations mirror the
// orchestrator's advertised constants: sessions expire after 60 seconds of
// inactivity and the sweeper runs every 5 seconds, so the TTL wait pads past
// expiry plus one sweep interval to absorb sweep jitter. Worker crashes are
// detected by a 5-second health check loop, so the recovery grace covers one
// detection cycle plus a restart.
const (
	DefaultTTLWait       = 67 * time.Second
	DefaultSettleDelay   = 500 * time.Millisecond
	DefaultRecoveryGrace = 10 * time.Second

	DefaultFanoutCount = 10
	DefaultChurnCount  = 3
)

// SuiteOpts adjusts the suite's timing and sizing to the target environment.
// Zero values mean the defaults above. The defaults assume the orchestrator's
// stock TTL and sweep configuration; if the target was deployed with different
// values, the TTL scenario will produce false results unless TTLWait is adjusted
// to match, since the orchestrator offers no way to discover them.
type SuiteOpts struct {
	// TTLWait is how long the TTL scenario waits before asserting expiry.
	TTLWait time.Duration
	// SettleDelay is the pause between freeing workers and reusing them.
	SettleDelay time.Duration
	// RecoveryGrace is how long the fault-injection scenario allows for crash
	// detection and worker restart.
	RecoveryGrace time.Duration
	// FanoutCount is how many concurrent session creates the concurrency
	// scenario launches.
	FanoutCount int
	// ChurnCount is how many sessions the graceful recovery scenario cycles.
	ChurnCount int
}

func (o SuiteOpts) withDefaults() SuiteOpts {
	if o.TTLWait == 0 {
		o.TTLWait = DefaultTTLWait
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.RecoveryGrace == 0 {
		o.RecoveryGrace = DefaultRecoveryGrace
	}
	if o.FanoutCount == 0 {
		o.FanoutCount = DefaultFanoutCount
	}
	if o.ChurnCount == 0 {
		o.ChurnCount = DefaultChurnCount
	}
	return o
}

type testCase struct {
	name string
	run  func(*T)
}

type testGroup struct {
	name  string
	cases []testCase
}

// allGroups is the suite registry. It is built once per run; group order and
// case order within a group are the execution and report order.
func allGroups() []testGroup {
	return []testGroup{
		{"CRUD operations", crudTestCases()},
		{"concurrency", concurrencyTestCases()},
		{"TTL expiration", ttlTestCases()},
		{"recovery", recoveryTestCases()},
	}
}

// RunTestSuite executes every registered group and case in order against the
// orchestrator that c is bound to, and returns the accumulated results. Cases
// run sequentially; a case's failure never prevents later cases from running.
// Sessions created by a case are deleted when it ends, regardless of outcome.
func RunTestSuite(
	c *client.OrchestratorClient,
	opts SuiteOpts,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	opts = opts.withDefaults()
	// Apply the filter to test cases only, never to groups, so that a pattern
	// naming a full "group/case" path selects exactly that case.
	var leafFilter framework.Filter
	if filter != nil {
		leafFilter = func(id framework.TestID) bool {
			if len(id.Path) < 2 {
				return true
			}
			return filter(id)
		}
	}
	return framework.Run(leafFilter, testLogger, func(ctx *framework.Context) {
		for _, group := range allGroups() {
			cases := group.cases
			ctx.Run(group.name, func(gc *framework.Context) {
				for _, tc := range cases {
					run := tc.run
					gc.Run(tc.name, func(cc *framework.Context) {
						t := newScope(cc, c, opts)
						defer t.cleanup()
						run(t)
					})
				}
			})
		}
	})
}

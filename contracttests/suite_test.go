package contracttests

import (
	"testing"
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/client"
	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastOpts shrinks the suite's waits so the whole run takes under a second
// against an in-memory mock.
func fastOpts() SuiteOpts {
	return SuiteOpts{
		TTLWait:       800 * time.Millisecond,
		SettleDelay:   20 * time.Millisecond,
		RecoveryGrace: 20 * time.Millisecond,
	}
}

func mustMatchFilter(t *testing.T, pattern string) framework.Filter {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set(pattern))
	return filters.AsFilter
}

func TestSuitePassesAgainstConformingOrchestrator(t *testing.T) {
	m := newMockOrchestrator()
	m.ttl = 500 * time.Millisecond
	defer m.close()

	c := client.NewOrchestratorClient(m.url(), nil)
	results := RunTestSuite(c, fastOpts(), nil, nil)

	require.True(t, results.OK(), "unexpected failures: %+v", results.Failures)
	passed, total := results.Counts()
	assert.Equal(t, 8, total)
	assert.Equal(t, 8, passed)

	var ids []string
	for _, r := range results.Tests {
		ids = append(ids, r.TestID.String())
	}
	assert.Equal(t, []string{
		"CRUD operations/create session",
		"CRUD operations/get session",
		"CRUD operations/delete session",
		"CRUD operations/404 on missing session",
		"concurrency/parallel session creates",
		"TTL expiration/session expires after TTL",
		"recovery/worker churn",
		"recovery/worker crash",
	}, ids)

	assert.Equal(t, 0, m.sessionCount(), "sessions leaked after the run")
}

func TestConcurrencyScenarioDetectsDuplicateIDs(t *testing.T) {
	m := newMockOrchestrator()
	m.duplicateIDs = true
	defer m.close()

	c := client.NewOrchestratorClient(m.url(), nil)
	results := RunTestSuite(c, fastOpts(), mustMatchFilter(t, "concurrency"), nil)

	assert.False(t, results.OK())
	passed, total := results.Counts()
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, passed)
	require.Len(t, results.Failures, 1)
	require.NotEmpty(t, results.Failures[0].Errors)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unique")

	assert.Equal(t, 0, m.sessionCount(), "failed case must still clean up its sessions")
}

func TestFailedCaseStillCleansUpItsSessions(t *testing.T) {
	m := newMockOrchestrator()
	m.corruptData = true
	defer m.close()

	c := client.NewOrchestratorClient(m.url(), nil)
	results := RunTestSuite(c, fastOpts(), mustMatchFilter(t, "get session"), nil)

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "CRUD operations/get session", results.Failures[0].TestID.String())

	assert.Equal(t, 0, m.sessionCount(), "failed case must still clean up its sessions")
}

func TestFaultInjectionFailureReportsPhase(t *testing.T) {
	m := newMockOrchestrator()
	m.disableCrashAPI = true
	defer m.close()

	c := client.NewOrchestratorClient(m.url(), nil)
	results := RunTestSuite(c, fastOpts(), mustMatchFilter(t, "worker crash"), nil)

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	require.NotEmpty(t, results.Failures[0].Errors)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "phase 2")

	assert.Equal(t, 0, m.sessionCount())
}

func TestFilterSelectsSingleCaseByFullPath(t *testing.T) {
	m := newMockOrchestrator()
	defer m.close()

	c := client.NewOrchestratorClient(m.url(), nil)
	results := RunTestSuite(c, fastOpts(),
		mustMatchFilter(t, "^CRUD operations/delete session$"), nil)

	require.True(t, results.OK(), "unexpected failures: %+v", results.Failures)
	passed, total := results.Counts()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, passed)
	require.Len(t, results.Tests, 1)
	assert.Equal(t, "CRUD operations/delete session", results.Tests[0].TestID.String())
}

func TestSuiteOptsDefaults(t *testing.T) {
	opts := SuiteOpts{}.withDefaults()
	assert.Equal(t, DefaultTTLWait, opts.TTLWait)
	assert.Equal(t, DefaultSettleDelay, opts.SettleDelay)
	assert.Equal(t, DefaultRecoveryGrace, opts.RecoveryGrace)
	assert.Equal(t, DefaultFanoutCount, opts.FanoutCount)
	assert.Equal(t, DefaultChurnCount, opts.ChurnCount)

	custom := SuiteOpts{TTLWait: time.Second, FanoutCount: 3}.withDefaults()
	assert.Equal(t, time.Second, custom.TTLWait)
	assert.Equal(t, 3, custom.FanoutCount)
	assert.Equal(t, DefaultChurnCount, custom.ChurnCount)
}

package contracttests

import (
	"errors"
	"fmt"

	"github.com/steel-dev/orchestrator-contract-tests/client"

	"github.com/stretchr/testify/require"
)

func recoveryTestCases() []testCase {
	return []testCase{
		{"worker churn", doWorkerChurnTest},
		{"worker crash", doWorkerCrashTest},
	}
}

// doWorkerChurnTest verifies that the orchestrator's capacity pool is reusable
// after churn: occupy it, release everything, then occupy it again.
func doWorkerChurnTest(t *T) {
	k := t.opts.ChurnCount

	// Phase 1: create several sessions to consume workers.
	ids := make([]string, 0, k)
	for i := 0; i < k; i++ {
		session, err := t.client.CreateSession(userPayload(fmt.Sprintf("recovery_%d", i)))
		require.NoError(t, err, "phase 1: failed to create session %d", i)
		ids = append(ids, session.ID)
		t.deferCleanup(session.ID)
	}

	// Phase 2: delete them all to free the workers.
	for _, id := range ids {
		t.deleteQuietly(id)
	}
	t.sleep(t.opts.SettleDelay, "the pool to settle")

	// Phase 3: the freed capacity must be usable for fresh sessions.
	for i := 0; i < k; i++ {
		session, err := t.client.CreateSession(userPayload(fmt.Sprintf("recovery_post_%d", i)))
		require.NoError(t, err, "phase 3: pool failed to recover on session %d", i)
		t.deferCleanup(session.ID)
	}
}

// doWorkerCrashTest verifies recovery from an abrupt internal failure: after the
// worker servicing a session is forcibly terminated, the stale session mapping
// must be cleaned up and the pool must still accept new sessions.
func doWorkerCrashTest(t *T) {
	// Phase 1: create a session to give the fault injection a target.
	session, err := t.client.CreateSession(userPayload("crash_test"))
	require.NoError(t, err, "phase 1: failed to create session")
	t.deferCleanup(session.ID)

	// Phase 2: kill whatever worker is servicing it.
	err = t.client.CrashWorker(session.ID)
	require.NoError(t, err, "phase 2: fault injection failed")

	// Phase 3: allow for crash detection and worker restart.
	t.sleep(t.opts.RecoveryGrace, "crash detection and worker restart")

	// Phase 4: the crashed session's ID must no longer resolve.
	_, err = t.client.GetSession(session.ID)
	if err == nil {
		t.Errorf("phase 4: session %q still resolves after its worker crashed", session.ID)
		t.FailNow()
	}
	require.True(t, errors.Is(err, client.ErrNotFound),
		"phase 4: expected not-found for crashed session %q, got: %v", session.ID, err)

	// Phase 5: the pool must have self-healed enough to create a new session.
	replacement, err := t.client.CreateSession(userPayload("crash_post"))
	require.NoError(t, err, "phase 5: pool failed to self-heal")
	t.deferCleanup(replacement.ID)
	require.NotEqual(t, "", replacement.ID, "phase 5: replacement session id is empty")
}

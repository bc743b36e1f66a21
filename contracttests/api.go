package contracttests

import (
	"errors"
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/client"
	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// T represents a test case in the conformance suite.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment outside of the Go test runner, with features such as per-case debug
// logging that are provided by the lower-level framework package. To make test
// assertions, use the assert and require packages, passing the *T as if it were a
// *testing.T.
//
// Every T also tracks the sessions its case created on the orchestrator. After
// the case returns - pass or fail - the suite deletes all of them, so that no
// remote state leaks across test runs. Those deletions are hygiene, not
// assertions: their own failures are logged to the debug output and discarded.
type T struct {
	context *framework.Context
	client  *client.OrchestratorClient
	opts    SuiteOpts

	// Only appended from the case's own goroutine; fan-out tasks hand their
	// session IDs back to the case before it registers them.
	createdSessions []string
}

func newScope(context *framework.Context, c *client.OrchestratorClient, opts SuiteOpts) *T {
	return &T{context: context, client: c, opts: opts}
}

func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

func (t *T) FailNow() {
	t.context.FailNow()
}

// Debug writes to the case's captured debug log.
func (t *T) Debug(message string, args ...interface{}) {
	t.context.Debug(message, args...)
}

// deferCleanup registers a session for best-effort deletion when the case ends.
func (t *T) deferCleanup(sessionID string) {
	t.createdSessions = append(t.createdSessions, sessionID)
}

func (t *T) cleanup() {
	for _, id := range t.createdSessions {
		t.deleteQuietly(id)
	}
}

// deleteQuietly attempts a deletion purely for hygiene and discards its outcome,
// so that a failed cleanup can never mask the case's actual result.
func (t *T) deleteQuietly(sessionID string) {
	status, err := t.client.DeleteSession(sessionID)
	if err != nil {
		t.Debug("cleanup: delete session %s failed: %s", sessionID, err)
		return
	}
	t.Debug("cleanup: deleted session %s (status %d)", sessionID, status)
}

// mustCreateSession creates a session with a {"user": name} payload, failing the
// case if creation fails, and registers it for cleanup.
func (t *T) mustCreateSession(user string) client.Session {
	session, err := t.client.CreateSession(userPayload(user))
	require.NoError(t, err, "failed to create session")
	t.deferCleanup(session.ID)
	return session
}

// requireNotFound asserts that the given session ID no longer resolves.
func (t *T) requireNotFound(sessionID string) {
	_, err := t.client.GetSession(sessionID)
	if err == nil {
		t.Errorf("session %q still exists - expected not-found", sessionID)
		t.FailNow()
	}
	require.True(t, errors.Is(err, client.ErrNotFound),
		"unexpected error for session %q: %v", sessionID, err)
}

// sleep suspends the case for the given duration, recording why in the debug log.
func (t *T) sleep(d time.Duration, why string) {
	t.Debug("waiting %s for %s", d, why)
	time.Sleep(d)
}

func userPayload(user string) ldvalue.Value {
	return ldvalue.ObjectBuild().Set("user", ldvalue.String(user)).Build()
}

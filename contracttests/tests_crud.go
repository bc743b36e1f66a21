package contracttests

import (
	"net/http"

	"github.com/stretchr/testify/require"
)

func crudTestCases() []testCase {
	return []testCase{
		{"create session", doCreateSessionTest},
		{"get session", doGetSessionTest},
		{"delete session", doDeleteSessionTest},
		{"404 on missing session", doMissingSessionTest},
	}
}

func doCreateSessionTest(t *T) {
	session := t.mustCreateSession("test_create")

	require.NotEqual(t, "", session.ID, "session id is empty")
	require.False(t, session.CreatedAt.IsNull(), "created_at is null")
	require.Equal(t, "test_create", session.Data.GetByKey("user").StringValue(),
		"unexpected data: %s", session.Data.JSONString())
}

func doGetSessionTest(t *T) {
	created := t.mustCreateSession("test_get")

	fetched, err := t.client.GetSession(created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID, "id mismatch")
	require.True(t, fetched.Data.Equal(created.Data),
		"data mismatch: created %s, fetched %s", created.Data.JSONString(), fetched.Data.JSONString())
}

func doDeleteSessionTest(t *T) {
	session := t.mustCreateSession("test_delete")

	status, err := t.client.DeleteSession(session.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, status, "expected 204 from delete, got %d", status)

	t.requireNotFound(session.ID)
}

func doMissingSessionTest(t *T) {
	t.requireNotFound("nonexistent-session-id-12345")
}

package contracttests

func ttlTestCases() []testCase {
	return []testCase{
		{"session expires after TTL", doTTLExpiryTest},
	}
}

// doTTLExpiryTest creates a session, never touches it again, and asserts that it
// is gone once the expiry window plus one sweep interval has passed. This is a
// black-box timing assertion: it trusts the orchestrator's advertised TTL and
// sweep parameters (see SuiteOpts).
func doTTLExpiryTest(t *T) {
	session := t.mustCreateSession("ttl_test")

	t.sleep(t.opts.TTLWait, "session TTL to expire and the sweeper to run")

	t.requireNotFound(session.ID)
}

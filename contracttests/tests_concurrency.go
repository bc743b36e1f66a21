package contracttests

import (
	"fmt"
	"sync"

	"github.com/steel-dev/orchestrator-contract-tests/client"

	"github.com/stretchr/testify/require"
)

func concurrencyTestCases() []testCase {
	return []testCase{
		{"parallel session creates", doConcurrentCreateTest},
	}
}

// doConcurrentCreateTest launches FanoutCount independent session creates at
// once and verifies that all succeed with pairwise-distinct IDs. Each task
// builds its own transport client bound to the same base URL: the client is
// only documented safe for read-sharing across sequential cases, not for being
// handed across task boundaries. A panic inside a task is folded into that
// slot's error; it never takes down the other tasks or the suite.
func doConcurrentCreateTest(t *T) {
	count := t.opts.FanoutCount
	baseURL := t.client.BaseURL()

	type slot struct {
		id  string
		err error
	}
	slots := make([]slot, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i].err = fmt.Errorf("task %d panicked: %v", i, r)
				}
			}()
			c := client.NewFanoutClient(baseURL)
			session, err := c.CreateSession(userPayload(fmt.Sprintf("concurrent_%d", i)))
			if err != nil {
				slots[i].err = fmt.Errorf("request %d: %w", i, err)
				return
			}
			slots[i].id = session.ID
		}(i)
	}
	wg.Wait()

	// Every session that was created gets deleted when the case ends, whether
	// or not the assertions below pass.
	var errs []error
	ids := make([]string, 0, count)
	for _, s := range slots {
		if s.err != nil {
			errs = append(errs, s.err)
			continue
		}
		ids = append(ids, s.id)
		t.deferCleanup(s.id)
	}

	if len(errs) > 0 {
		t.Errorf("%d/%d concurrent creates failed: %s", len(errs), count, errs[0])
		t.FailNow()
	}

	unique := make(map[string]bool, count)
	for _, id := range ids {
		unique[id] = true
	}
	require.Equal(t, count, len(unique),
		"expected %d unique session ids, got %d", count, len(unique))
}

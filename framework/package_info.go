// Package framework contains the low-level test execution engine, with no knowledge
// of what is being tested.
//
// The general model is:
//
// 1. A test run is a tree of named scopes. The domain-specific test code calls
// Context.Run to enter a scope; leaf scopes are the individual test cases. Scopes
// execute sequentially, in the order they were registered, and one case's failure
// never prevents its siblings from running.
//
// 2. Each case produces either a success or a failure with diagnostic errors. The
// engine accumulates these into a Results value, from which the caller can derive
// a passed/total count and therefore the process exit status.
//
// 3. Progress and failures are reported through the TestLogger interface, and each
// case has its own CapturingLogger for debug output that is only shown when wanted.
//
// The domain-specific code that knows about the service under test is responsible
// for providing the scenario bodies and a domain-specific API on top of Context.
package framework

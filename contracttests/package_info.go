// Package contracttests contains the orchestrator conformance scenarios and their
// supporting API.
//
// Test execution machinery that is not specific to the orchestrator domain, such
// as result accumulation and test filtering, is in the lower-level framework
// package; the HTTP protocol client is in the client package.
package contracttests

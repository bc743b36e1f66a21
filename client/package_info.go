// Package client provides the typed HTTP client for the session orchestrator's API.
//
// This is the single point of contact with the service under test. It translates
// domain operations (create/get/delete session, health check, fault injection)
// into HTTP calls, and HTTP responses back into typed results or typed errors.
// It holds no session state of its own and never retries.
package client

package client

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/steel-dev/orchestrator-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	// primaryRequestTimeout covers worst-case orchestrator processing for the
	// sequential client; creating a session can block on worker availability.
	primaryRequestTimeout = 5 * time.Minute

	// fanoutRequestTimeout is the shorter bound used by per-task clients in the
	// concurrency scenario.
	fanoutRequestTimeout = 35 * time.Second

	healthPollInterval = 100 * time.Millisecond
)

// Session is the orchestrator's representation of a session, as returned by
// POST /sessions and GET /sessions/{id}. CreatedAt and Data are arbitrary JSON
// values; the harness only checks CreatedAt for non-nullness and compares Data
// structurally against what it sent.
type Session struct {
	ID        string        `json:"id"`
	CreatedAt ldvalue.Value `json:"created_at"`
	Data      ldvalue.Value `json:"data"`
}

// ServiceStatus is the orchestrator's pool/session introspection from GET /status.
type ServiceStatus struct {
	ActiveSessions   int            `json:"active_sessions"`
	WorkerCount      int            `json:"worker_count"`
	AvailableWorkers int            `json:"available_workers"`
	MinWorkers       int            `json:"min_workers"`
	MaxWorkers       int            `json:"max_workers"`
	Workers          []WorkerStatus `json:"workers"`
}

type WorkerStatus struct {
	ID        int    `json:"id"`
	Port      int    `json:"port"`
	State     string `json:"state"`
	SessionID string `json:"session_id"`
}

// OrchestratorClient is a connection-pooled HTTP client bound to one orchestrator
// base URL. It is a pure protocol adapter: it holds no session state, so it is
// safe to share read-only across the sequential test cases. Fan-out tasks should
// still construct their own instance with NewFanoutClient rather than handing one
// client across goroutine boundaries; see the concurrency scenario.
type OrchestratorClient struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

// NewOrchestratorClient creates the primary client used by the sequential runner.
func NewOrchestratorClient(baseURL string, logger framework.Logger) *OrchestratorClient {
	return newClient(baseURL, primaryRequestTimeout, logger)
}

// NewFanoutClient creates an independent client for a single concurrent task,
// bound to the same base URL but with its own connection pool and a shorter
// request timeout.
func NewFanoutClient(baseURL string) *OrchestratorClient {
	return newClient(baseURL, fanoutRequestTimeout, nil)
}

func newClient(baseURL string, timeout time.Duration, logger framework.Logger) *OrchestratorClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &OrchestratorClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the base URL this client is bound to, for constructing
// per-task clients against the same target.
func (c *OrchestratorClient) BaseURL() string {
	return c.baseURL
}

// CreateSession issues POST /sessions with the given payload as the request body.
// On success the response must decode as a Session.
func (c *OrchestratorClient) CreateSession(data ldvalue.Value) (Session, error) {
	op := "POST /sessions"
	body, err := json.Marshal(data)
	if err != nil {
		return Session{}, &DecodeError{Op: op, Err: err}
	}
	req, err := http.NewRequest("POST", c.baseURL+"/sessions", strings.NewReader(string(body)))
	if err != nil {
		return Session{}, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Printf("creating session with data: %s", string(body))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, &TransportError{Op: op, Err: err}
	}
	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return Session{}, &RequestFailedError{Op: op, Status: resp.StatusCode, Body: string(respBody)}
	}
	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return Session{}, &DecodeError{Op: op, Err: err}
	}
	c.logger.Printf("created session %s", session.ID)
	return session, nil
}

// GetSession issues GET /sessions/{id}. A 404 is reported as ErrNotFound; any
// other non-success status is a RequestFailedError.
func (c *OrchestratorClient) GetSession(id string) (Session, error) {
	op := fmt.Sprintf("GET /sessions/%s", id)
	resp, err := c.httpClient.Get(c.baseURL + "/sessions/" + id)
	if err != nil {
		return Session{}, &TransportError{Op: op, Err: err}
	}
	respBody := readBody(resp)
	if resp.StatusCode == http.StatusNotFound {
		return Session{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if !isSuccess(resp.StatusCode) {
		return Session{}, &RequestFailedError{Op: op, Status: resp.StatusCode, Body: string(respBody)}
	}
	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return Session{}, &DecodeError{Op: op, Err: err}
	}
	return session, nil
}

// DeleteSession issues DELETE /sessions/{id} and returns the raw status code.
// It does not interpret the status; callers decide what counts as deleted
// (the orchestrator answers 204). The only failure mode is a transport error.
func (c *OrchestratorClient) DeleteSession(id string) (int, error) {
	op := fmt.Sprintf("DELETE /sessions/%s", id)
	req, err := http.NewRequest("DELETE", c.baseURL+"/sessions/"+id, nil)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	readBody(resp)
	c.logger.Printf("deleted session %s (status %d)", id, resp.StatusCode)
	return resp.StatusCode, nil
}

// Health issues GET /health and returns the raw response body. It is used only
// as a reachability gate, so the body is not parsed and the status is not checked.
func (c *OrchestratorClient) Health() (string, error) {
	op := "GET /health"
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	return string(readBody(resp)), nil
}

// Status issues GET /status and decodes the orchestrator's pool introspection.
func (c *OrchestratorClient) Status() (ServiceStatus, error) {
	op := "GET /status"
	resp, err := c.httpClient.Get(c.baseURL + "/status")
	if err != nil {
		return ServiceStatus{}, &TransportError{Op: op, Err: err}
	}
	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return ServiceStatus{}, &RequestFailedError{Op: op, Status: resp.StatusCode, Body: string(respBody)}
	}
	var status ServiceStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return ServiceStatus{}, &DecodeError{Op: op, Err: err}
	}
	return status, nil
}

// CrashWorker issues the testing-only control request that forcibly terminates
// whatever worker is currently servicing the given session.
func (c *OrchestratorClient) CrashWorker(sessionID string) error {
	op := "POST /debug/crash-worker"
	crashURL := fmt.Sprintf("%s/debug/crash-worker?session_id=%s", c.baseURL, url.QueryEscape(sessionID))
	resp, err := c.httpClient.Post(crashURL, "", nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return &RequestFailedError{Op: op, Status: resp.StatusCode, Body: string(respBody)}
	}
	c.logger.Printf("crashed worker holding session %s", sessionID)
	return nil
}

// WaitForHealthy polls the health endpoint until it responds or the timeout
// elapses. Used as the pre-flight gate before any test case runs.
func (c *OrchestratorClient) WaitForHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		body, err := c.Health()
		if err == nil {
			c.logger.Printf("health check response: %s", body)
			return nil
		}
		lastErr = err
		if !time.Now().Before(deadline) {
			return fmt.Errorf("orchestrator did not become reachable within %s: %w", timeout, lastErr)
		}
		time.Sleep(healthPollInterval)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func readBody(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	data, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	return data
}

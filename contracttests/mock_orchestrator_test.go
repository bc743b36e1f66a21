package contracttests

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// mockOrchestrator is an in-memory stand-in for the session orchestrator,
// implementing the HTTP surface the harness consumes. The misbehavior knobs
// let tests verify how the suite reports a non-conforming service.
type mockOrchestrator struct {
	mu       sync.Mutex
	sessions map[string]mockSession
	nextID   int

	ttl             time.Duration // 0 = sessions never expire
	duplicateIDs    bool          // hand out the same id for every create
	corruptData     bool          // return wrong data from GET
	disableCrashAPI bool          // pretend the fault-injection endpoint is absent

	server *httptest.Server
}

type mockSession struct {
	id        string
	createdAt time.Time
	data      json.RawMessage
}

func newMockOrchestrator() *mockOrchestrator {
	m := &mockOrchestrator{sessions: make(map[string]mockSession)}
	mux := http.NewServeMux()
	mux.HandleFunc("/sessions", m.handleCreate)
	mux.HandleFunc("/sessions/", m.handleSessionByID)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/status", m.handleStatus)
	mux.HandleFunc("/debug/crash-worker", m.handleCrashWorker)
	m.server = httptest.NewServer(mux)
	return m
}

func (m *mockOrchestrator) url() string { return m.server.URL }

func (m *mockOrchestrator) close() { m.server.Close() }

func (m *mockOrchestrator) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *mockOrchestrator) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("sess-%d", m.nextID)
	if m.duplicateIDs {
		id = "sess-duplicate"
	}
	session := mockSession{id: id, createdAt: time.Now(), data: body}
	m.sessions[id] = session
	m.mu.Unlock()

	m.writeSession(w, http.StatusCreated, session)
}

func (m *mockOrchestrator) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/sessions/")

	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok && m.ttl > 0 && time.Since(session.createdAt) > m.ttl {
		delete(m.sessions, id)
		ok = false
	}
	if r.Method == http.MethodDelete && ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if m.corruptData {
			session.data = json.RawMessage(`{"user":"corrupted"}`)
		}
		m.writeSession(w, http.StatusOK, session)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (m *mockOrchestrator) handleStatus(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	active := len(m.sessions)
	m.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"active_sessions":   active,
		"worker_count":      4,
		"available_workers": 4 - active,
		"min_workers":       2,
		"max_workers":       8,
		"workers":           []interface{}{},
	})
}

func (m *mockOrchestrator) handleCrashWorker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if m.disableCrashAPI {
		http.Error(w, "unknown endpoint", http.StatusNotFound)
		return
	}
	id := r.URL.Query().Get("session_id")

	m.mu.Lock()
	_, ok := m.sessions[id]
	// A crashed worker takes its session with it; the orchestrator's stale
	// mapping cleanup is what the recovery scenario observes.
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	fmt.Fprint(w, "worker killed")
}

func (m *mockOrchestrator) writeSession(w http.ResponseWriter, status int, session mockSession) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":         session.id,
		"created_at": session.createdAt.Format(time.RFC3339Nano),
		"data":       session.data,
	})
}

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// TestAPIKey is the key the fake server accepts.
const TestAPIKey = "test-api-key"

// NamedID is one metadata entry served by the fake.
type NamedID struct {
	ID   int64
	Name string
}

// FakeBacklog is an httptest server speaking the slice of Backlog API v2 the
// CLI uses. The zero project is "PRJ" (id 100).
type FakeBacklog struct {
	Server *httptest.Server

	ProjectKey string
	ProjectID  int64
	Priorities []NamedID
	IssueTypes []NamedID
	Versions   []NamedID
	Users      []NamedID

	// FailPostAt makes the n-th POST /issues (1-based) answer 500. Zero disables it.
	FailPostAt int
	// FailGet makes GET requests whose path ends with this suffix answer 500.
	FailGet string

	mu       sync.Mutex
	gets     []string
	posts    []url.Values
	nextID   int64
	issueSeq int
}

// NewFakeBacklog starts a fake server that is closed when t finishes.
func NewFakeBacklog(t testing.TB) *FakeBacklog {
	t.Helper()
	f := &FakeBacklog{
		ProjectKey: "PRJ",
		ProjectID:  100,
		Priorities: []NamedID{{2, "High"}, {3, "Normal"}, {4, "Low"}},
		IssueTypes: []NamedID{{10, "Task"}, {11, "Bug"}},
		Versions:   []NamedID{{20, "v1.0"}, {21, "M1"}},
		Users:      []NamedID{{30, "Alice"}, {31, "Bob"}},
		nextID:     1000,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Host returns a host string the backlog client accepts (scheme included).
func (f *FakeBacklog) Host() string {
	return f.Server.URL
}

// Posts returns the form bodies of every POST /issues received, in order.
func (f *FakeBacklog) Posts() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.Values, len(f.posts))
	copy(out, f.posts)
	return out
}

// Gets returns the paths of every GET received, in order.
func (f *FakeBacklog) Gets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.gets))
	copy(out, f.gets)
	return out
}

func (f *FakeBacklog) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("apiKey") != TestAPIKey {
		writeErrors(w, http.StatusUnauthorized, "Authentication failure.")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v2/")
	projectPrefix := fmt.Sprintf("projects/%d/", f.ProjectID)

	if r.Method == http.MethodGet {
		f.mu.Lock()
		f.gets = append(f.gets, path)
		f.mu.Unlock()

		if f.FailGet != "" && strings.HasSuffix(path, f.FailGet) {
			writeErrors(w, http.StatusInternalServerError, "boom")
			return
		}
	}

	switch {
	case r.Method == http.MethodGet && path == "space":
		writeJSON(w, map[string]any{"spaceKey": "FAKE", "name": "Fake Space"})
	case r.Method == http.MethodGet && path == "projects":
		writeJSON(w, []map[string]any{
			{"id": 1, "projectKey": "OTHER", "name": "Other"},
			{"id": f.ProjectID, "projectKey": f.ProjectKey, "name": "Project"},
		})
	case r.Method == http.MethodGet && path == "priorities":
		writeJSON(w, named(f.Priorities))
	case r.Method == http.MethodGet && path == projectPrefix+"issueTypes":
		writeJSON(w, named(f.IssueTypes))
	case r.Method == http.MethodGet && path == projectPrefix+"versions":
		writeJSON(w, named(f.Versions))
	case r.Method == http.MethodGet && path == projectPrefix+"users":
		writeJSON(w, named(f.Users))
	case r.Method == http.MethodPost && path == "issues":
		f.createIssue(w, r)
	default:
		writeErrors(w, http.StatusNotFound, "No such resource.")
	}
}

func (f *FakeBacklog) createIssue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	f.posts = append(f.posts, r.PostForm)
	n := len(f.posts)
	fail := f.FailPostAt > 0 && n == f.FailPostAt
	if !fail {
		f.nextID++
		f.issueSeq++
	}
	id, seq := f.nextID, f.issueSeq
	f.mu.Unlock()

	if fail {
		writeErrors(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	resp := map[string]any{
		"id":       id,
		"issueKey": f.ProjectKey + "-" + strconv.Itoa(seq),
		"summary":  r.PostForm.Get("summary"),
	}
	if p := r.PostForm.Get("parentIssueId"); p != "" {
		pid, _ := strconv.ParseInt(p, 10, 64)
		resp["parentIssueId"] = pid
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

func named(items []NamedID) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"id": it.ID, "name": it.Name})
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{"message": msg, "code": 0, "moreInfo": ""}},
	})
}

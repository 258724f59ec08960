// Package testutil provides testing utilities for the budget API.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestServer wraps httptest.Server with convenience methods
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	t       *testing.T
}

// ProjectRoot returns the root directory of the project.
// It works by finding the go.mod file.
func ProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not get caller info")
	}

	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// TestEnv returns environment overrides that point the app at a fresh temp data directory
func TestEnv(t *testing.T) map[string]string {
	t.Helper()
	dir := t.TempDir()
	return map[string]string{
		"BUDGET_CONFIG":      filepath.Join(dir, "config.yaml"),
		"BUDGET_DATA_DIR":    filepath.Join(dir, "data"),
		"BUDGET_STATE_FILE":  "state.json",
		"BUDGET_DEBUG":       "true",
		"BUDGET_LISTEN_ADDR": ":0", // Random port
	}
}

// SetTestEnv applies TestEnv for the duration of the test
func SetTestEnv(t *testing.T) {
	t.Helper()
	for k, v := range TestEnv(t) {
		t.Setenv(k, v)
	}
}

// NewTestServer creates a new test server using the application's router
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()

	resp, err := http.Get(ts.BaseURL + path)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// POST performs a POST request to the given path
func (ts *TestServer) POST(path string, contentType string, body io.Reader) *http.Response {
	ts.t.Helper()

	resp, err := http.Post(ts.BaseURL+path, contentType, body)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// POSTJSON encodes v and POSTs it to the given path
func (ts *TestServer) POSTJSON(path string, v any) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodPost, path, v)
}

// PUTJSON encodes v and PUTs it to the given path
func (ts *TestServer) PUTJSON(path string, v any) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodPut, path, v)
}

// DELETE performs a DELETE request to the given path
func (ts *TestServer) DELETE(path string) *http.Response {
	ts.t.Helper()
	return ts.Do(http.MethodDelete, path, nil)
}

// Do sends a request with v encoded as a JSON body; a nil v sends no body
func (ts *TestServer) Do(method, path string, v any) *http.Response {
	ts.t.Helper()

	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			ts.t.Fatalf("encoding %s %s body: %v", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.BaseURL+path, body)
	if err != nil {
		ts.t.Fatalf("building %s %s: %v", method, path, err)
	}
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

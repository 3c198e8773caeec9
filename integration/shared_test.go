//go:build basic || database || integration

// Package integration runs the repovalue binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run them: go test -tags integration ./integration
// The database tests also need Docker: go test -tags database ./integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a repovalue binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// fakeGitHub serves octo/hello and counts every request it answers.
type fakeGitHub struct {
	*httptest.Server
	hits atomic.Int64
}

// newFakeGitHub starts a small GitHub API double. Unknown repositories get a 404.
func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	fake := &fakeGitHub{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"full_name":         "octo/hello",
			"description":       "demo project",
			"language":          "Go",
			"stargazers_count":  1200,
			"forks_count":       150,
			"watchers_count":    1200,
			"open_issues_count": 10,
			"has_wiki":          true,
			"created_at":        "2020-01-01T00:00:00Z",
		})
	})
	mux.HandleFunc("GET /repos/octo/hello/stats/commit_activity", func(w http.ResponseWriter, _ *http.Request) {
		weeks := make([]map[string]any, 10)
		for i := range weeks {
			weeks[i] = map[string]any{"total": 16, "week": int64(1735430400) + int64(i)*604800}
		}
		writeJSON(w, weeks)
	})
	mux.HandleFunc("GET /repos/octo/hello/contributors", func(w http.ResponseWriter, _ *http.Request) {
		people := make([]map[string]any, 12)
		for i := range people {
			people[i] = map[string]any{"login": fmt.Sprintf("dev%d", i), "contributions": i + 1}
		}
		writeJSON(w, people)
	})
	mux.HandleFunc("GET /repos/octo/hello/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("path") != "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, []map[string]any{
			{"type": "file", "name": "README.md", "path": "README.md", "size": 4000},
			{"type": "file", "name": "main.go", "path": "main.go", "size": 1200},
			{"type": "dir", "name": "internal", "path": "internal", "size": 0},
		})
	})
	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fake.Close)
	return fake
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// runRepovalue runs the binary from the project root with extra environment variables
// and returns its stdout.
func runRepovalue(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getRepovalueBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// getRepovalueBinary returns the path to the repovalue binary, building it once if needed.
func getRepovalueBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "repovalue-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "repovalue")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build repovalue: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

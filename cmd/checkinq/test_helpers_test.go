package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

type remoteStub struct {
	mu       sync.Mutex
	server   *httptest.Server
	accepted []string
	offline  bool
}

func (r *remoteStub) setOffline(offline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = offline
}

func (r *remoteStub) acceptedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.accepted...)
}

type cliTestEnv struct {
	configPath string
	baseDir    string
	remote     *remoteStub
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("CHECKINQ_API_TOKEN", "")
	t.Setenv("CHECKINQ_BASE_URL", "")

	remote := &remoteStub{}
	remote.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remote.mu.Lock()
		defer remote.mu.Unlock()
		if remote.offline {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var payload struct {
			IdempotencyKey string `json:"idempotency_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		remote.accepted = append(remote.accepted, payload.IdempotencyKey)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(remote.server.Close)

	catalogPath := filepath.Join(base, "places.json")
	catalog := `[
{"id":1,"name":"Dam Square","category":{"id":1,"name":"squares","color":"#f00"},"location":{"latitude":52.373,"longitude":4.893}},
{"id":2,"name":"Central Station","category":{"id":2,"name":"stations","color":"#00f"},"location":{"latitude":52.379,"longitude":4.900}},
{"id":3,"name":"Electric Company","category":{"id":3,"name":"utilities","color":"#0f0"},"location":null}
]`
	if err := os.WriteFile(catalogPath, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	payload := map[string]any{
		"paths":   map[string]any{"data_dir": filepath.Join(base, "data"), "log_dir": ""},
		"remote":  map[string]any{"base_url": remote.server.URL + "/api", "request_timeout": 5},
		"places":  map[string]any{"catalog_path": catalogPath},
		"logging": map[string]any{"level": "error"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(base, "checkinq.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base, remote: remote}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"checkinq/internal/kvstore"
	"checkinq/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckDatabase(context.Background(), cfg); !result.Passed {
		t.Fatalf("missing database should pass, got: %s", result.Detail)
	}

	store, err := kvstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set(context.Background(), "gameState", "{}"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = store.Close()

	result := CheckDatabase(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"name":"A","location":null}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCatalog(path); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckCatalog(filepath.Join(t.TempDir(), "missing.json")); result.Passed {
		t.Fatal("expected failure for missing catalog")
	}
}

func TestCheckRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if result := CheckRemote(context.Background(), srv.URL, "checkinq-test"); !result.Passed {
		t.Fatalf("any HTTP answer should pass, got: %s", result.Detail)
	}
	srv.Close()
	if result := CheckRemote(context.Background(), srv.URL, ""); result.Passed {
		t.Fatal("expected failure for closed server")
	}
	if result := CheckRemote(context.Background(), "", ""); result.Passed {
		t.Fatal("expected failure for empty url")
	}
}

func TestRunAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL(srv.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected four checks, got %+v", results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("check %s failed: %s", r.Name, r.Detail)
		}
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

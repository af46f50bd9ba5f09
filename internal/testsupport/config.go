package testsupport

import (
	"path/filepath"
	"testing"

	"checkinq/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Remote.BaseURL = "http://127.0.0.1:0/api/monopoly"
	cfgVal.Remote.RequestTimeout = 5
	cfgVal.Storage.BusyTimeoutMS = 1000

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the remote endpoint at url, typically an httptest server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.BaseURL = url
	}
}

// WithRecordKey overrides the durable record key.
func WithRecordKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.RecordKey = key
	}
}

// WithCatalog sets the place catalog path.
func WithCatalog(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Places.CatalogPath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

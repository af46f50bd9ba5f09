package preflight

import (
	"context"

	"checkinq/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Data directory", cfg.Paths.DataDir)}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckDatabase(ctx, cfg))
	if cfg.Places.CatalogPath != "" {
		results = append(results, CheckCatalog(cfg.Places.CatalogPath))
	}
	results = append(results, CheckRemote(ctx, cfg.Remote.BaseURL, cfg.Remote.UserAgent))
	return results
}

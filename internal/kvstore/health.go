package kvstore

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Health describes the database for diagnostic output.
type Health struct {
	Path      string
	SizeBytes int64
	Records   int
	Integrity string
	UpdatedAt time.Time
}

// CheckHealth runs SQLite's integrity check and collects basic statistics.
func (s *Store) CheckHealth(ctx context.Context) (Health, error) {
	health := Health{Path: s.path}

	info, err := os.Stat(s.path)
	if err != nil {
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.SizeBytes = info.Size()

	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&health.Integrity); err != nil {
		return health, fmt.Errorf("integrity check: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM records").Scan(&health.Records); err != nil {
		return health, fmt.Errorf("count records: %w", err)
	}

	var updated *string
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM records").Scan(&updated); err != nil {
		return health, fmt.Errorf("read last update: %w", err)
	}
	if updated != nil {
		if ts, parseErr := time.Parse(time.RFC3339Nano, *updated); parseErr == nil {
			health.UpdatedAt = ts
		}
	}
	return health, nil
}

package kvstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaMismatch means the database was written by an incompatible checkinq.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates the records table on a fresh database and refuses to use
// one stamped with another version.
func (s *Store) initSchema(ctx context.Context) error {
	version, stamped, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	switch {
	case !stamped:
		return s.createSchema(ctx)
	case version != schemaVersion:
		return fmt.Errorf("%w: %s has version %d, checkinq expects %d (delete it to start over)",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	default:
		return nil
	}
}

// storedVersion reports the version row, and false when the database has
// never been initialized.
func (s *Store) storedVersion(ctx context.Context) (int, bool, error) {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tables); err != nil {
		return 0, false, fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return 0, false, nil
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, true, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return tx.Commit()
}

// Package session guards a queue database so one checkinq process owns it at
// a time, and wires the store, delivery client, and manager together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"checkinq/internal/config"
	"checkinq/internal/delivery"
	"checkinq/internal/kvstore"
	"checkinq/internal/logging"
	"checkinq/internal/manager"
	"checkinq/internal/queue"
	"checkinq/internal/syncengine"
)

// ErrBusy reports that another process holds the session lock.
var ErrBusy = errors.New("another checkinq process is using the queue")

// Session is an open, locked queue database.
type Session struct {
	cfg    *config.Config
	lock   *flock.Flock
	medium *kvstore.Store
	store  *queue.Store
	logger *slog.Logger
}

// Open acquires the lock next to the database and opens the store.
func Open(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session: config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBusy, cfg.LockPath())
	}

	medium, err := kvstore.Open(cfg)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	store, err := queue.NewStore(medium, cfg.Storage.RecordKey)
	if err != nil {
		_ = medium.Close()
		_ = lock.Unlock()
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{cfg: cfg, lock: lock, medium: medium, store: store, logger: logger}, nil
}

// Store returns the queue store.
func (s *Session) Store() *queue.Store {
	return s.store
}

// Medium returns the underlying database.
func (s *Session) Medium() *kvstore.Store {
	return s.medium
}

// Deliverer builds the HTTP delivery client from config.
func (s *Session) Deliverer() (syncengine.Deliverer, error) {
	return delivery.NewFromConfig(s.cfg)
}

// Create starts a fresh session for teamID using d, or the configured HTTP
// client when d is nil.
func (s *Session) Create(ctx context.Context, teamID int64, d syncengine.Deliverer) (*manager.Manager, error) {
	d, err := s.deliverer(d)
	if err != nil {
		return nil, err
	}
	return manager.Create(ctx, teamID, s.store, d, manager.WithLogger(s.logger))
}

// Restore resumes the persisted session using d, or the configured HTTP
// client when d is nil.
func (s *Session) Restore(ctx context.Context, d syncengine.Deliverer) (*manager.Manager, error) {
	d, err := s.deliverer(d)
	if err != nil {
		return nil, err
	}
	return manager.Restore(ctx, s.store, d, manager.WithLogger(s.logger))
}

func (s *Session) deliverer(d syncengine.Deliverer) (syncengine.Deliverer, error) {
	if d != nil {
		return d, nil
	}
	return s.Deliverer()
}

// Close releases the database and the lock.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.medium != nil {
		errs = append(errs, s.medium.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

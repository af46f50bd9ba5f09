// Package manager is the check-in queue facade used by the CLI: it turns a
// photo and a place into a queued check-in and exposes sync status.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"checkinq/internal/checkin"
	"checkinq/internal/logging"
	"checkinq/internal/syncengine"
)

// Store loads and saves the durable session record.
type Store interface {
	Load(ctx context.Context) (*checkin.ManagerState, error)
	Save(ctx context.Context, state *checkin.ManagerState) error
}

// Manager owns one team's queue.
type Manager struct {
	engine  *syncengine.Engine
	encoder checkin.Encoder
	keys    *checkin.KeyGenerator
	logger  *slog.Logger
}

type options struct {
	logger *slog.Logger
	keys   *checkin.KeyGenerator
}

// Option configures a Manager.
type Option func(*options)

// WithLogger sets the logger passed down to the sync engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKeyGenerator overrides client key generation.
func WithKeyGenerator(keys *checkin.KeyGenerator) Option {
	return func(o *options) { o.keys = keys }
}

// Create starts a fresh session for teamID and persists it immediately,
// replacing any previous record.
func Create(ctx context.Context, teamID int64, store Store, deliverer syncengine.Deliverer, opts ...Option) (*Manager, error) {
	if teamID <= 0 {
		return nil, checkin.InvalidInput(fmt.Sprintf("team id must be positive, got %d", teamID))
	}
	if store == nil {
		return nil, errors.New("manager: store is required")
	}
	state := checkin.ManagerState{TeamID: teamID, QueuedCheckins: []checkin.QueuedCheckin{}}
	if err := store.Save(ctx, &state); err != nil {
		return nil, fmt.Errorf("persist new session: %w", err)
	}
	return newManager(state, store, deliverer, opts)
}

// Restore resumes the last persisted session. It returns ErrNoSession when no
// record exists and ErrCorruptState when the record cannot be decoded.
func Restore(ctx context.Context, store Store, deliverer syncengine.Deliverer, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("manager: store is required")
	}
	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, checkin.ErrNoSession
	}
	return newManager(*state, store, deliverer, opts)
}

func newManager(state checkin.ManagerState, store Store, deliverer syncengine.Deliverer, opts []Option) (*Manager, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.keys == nil {
		o.keys = checkin.NewKeyGenerator()
	}
	for _, item := range state.QueuedCheckins {
		o.keys.Reserve(item.ClientKey)
	}

	engine, err := syncengine.New(state, store, deliverer, syncengine.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	return &Manager{
		engine: engine,
		keys:   o.keys,
		logger: logging.NewComponentLogger(o.logger, "manager"),
	}, nil
}

// TeamID returns the team this session belongs to.
func (m *Manager) TeamID() int64 {
	return m.engine.TeamID()
}

// Status reports whether the queue is up to date, waiting, or sending.
func (m *Manager) Status() checkin.Status {
	return m.engine.Status()
}

// PendingCheckinCount returns the number of check-ins not yet accepted remotely.
func (m *Manager) PendingCheckinCount() int {
	return m.engine.Pending()
}

// Queued returns a copy of the pending check-ins in delivery order.
func (m *Manager) Queued() []checkin.QueuedCheckin {
	return m.engine.Snapshot().QueuedCheckins
}

// QueueCheckin encodes raw, queues a check-in for place, and starts a
// background sync. When the photo is missing or unreadable, or the location
// is not a finite coordinate, nothing is queued.
// A persistence failure is returned, but the check-in stays queued in memory
// and the sync still starts.
func (m *Manager) QueueCheckin(ctx context.Context, place checkin.Place, location *checkin.Location, raw *checkin.RawFile) (checkin.QueuedCheckin, error) {
	if err := checkin.ValidateLocation(location); err != nil {
		return checkin.QueuedCheckin{}, err
	}
	photo, err := m.encoder.Encode(ctx, raw)
	if err != nil {
		return checkin.QueuedCheckin{}, err
	}
	key, dateTime, err := m.keys.Next()
	if err != nil {
		return checkin.QueuedCheckin{}, fmt.Errorf("generate client key: %w", err)
	}
	item := checkin.QueuedCheckin{
		ClientKey: key,
		PlaceID:   place.ID,
		DateTime:  dateTime,
		Photo:     photo,
	}
	if location != nil {
		loc := *location
		item.Location = &loc
	}

	persistErr := m.engine.Enqueue(ctx, item)
	if persistErr != nil {
		m.logger.Error("queued check-in not persisted",
			logging.String(logging.FieldClientKey, key),
			logging.Error(persistErr),
		)
	}
	m.engine.TriggerAsync(ctx)
	return item, persistErr
}

// TrySend runs a delivery pass now, or returns immediately when one is already running.
func (m *Manager) TrySend(ctx context.Context) syncengine.PassResult {
	return m.engine.Trigger(ctx)
}

// Wait blocks until background syncs started by QueueCheckin finish.
func (m *Manager) Wait() {
	m.engine.Wait()
}

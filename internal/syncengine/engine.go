package syncengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"checkinq/internal/checkin"
	"checkinq/internal/logging"
)

// Deliverer submits one check-in to the remote service.
type Deliverer interface {
	Deliver(ctx context.Context, teamID int64, item checkin.QueuedCheckin) error
}

// Persister writes the full queue state durably.
type Persister interface {
	Save(ctx context.Context, state *checkin.ManagerState) error
}

// PassResult summarizes one Trigger call.
type PassResult struct {
	// Ran is false when another pass was already in progress.
	Ran       bool
	PassID    string
	Attempted int
	Delivered int
	Failed    int
	Pending   int
	Duration  time.Duration
}

// Engine is the single owner of a team's live queue.
type Engine struct {
	teamID    int64
	store     Persister
	deliverer Deliverer
	logger    *slog.Logger
	newPassID func() string

	mu      sync.Mutex
	queue   []checkin.QueuedCheckin
	sending bool

	saveMu sync.Mutex
	passes sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPassIDs overrides pass identifier generation.
func WithPassIDs(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newPassID = fn
		}
	}
}

// New returns an Engine seeded with state. The engine never starts in the
// sending state.
func New(state checkin.ManagerState, store Persister, deliverer Deliverer, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("syncengine: store is required")
	}
	if deliverer == nil {
		return nil, errors.New("syncengine: deliverer is required")
	}
	snapshot := state.Clone()
	e := &Engine{
		teamID:    snapshot.TeamID,
		store:     store,
		deliverer: deliverer,
		logger:    logging.NewNop(),
		newPassID: uuid.NewString,
		queue:     snapshot.QueuedCheckins,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "sync").With(logging.Int64(logging.FieldTeamID, e.teamID))
	return e, nil
}

// TeamID returns the team owning this queue.
func (e *Engine) TeamID() int64 {
	return e.teamID
}

// Status reports the sync state.
func (e *Engine) Status() checkin.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return checkin.StatusFor(len(e.queue), e.sending)
}

// Pending returns the number of queued check-ins.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() checkin.ManagerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() checkin.ManagerState {
	return checkin.ManagerState{TeamID: e.teamID, QueuedCheckins: e.queue}.Clone()
}

// Enqueue appends item to the tail of the queue and persists. The item stays
// queued even when persisting fails; the error is returned so the caller can
// report it. Enqueue does not trigger delivery; callers pair it with
// TriggerAsync, as manager.QueueCheckin does.
func (e *Engine) Enqueue(ctx context.Context, item checkin.QueuedCheckin) error {
	e.mu.Lock()
	e.queue = append(e.queue, item)
	pending := len(e.queue)
	e.mu.Unlock()

	e.logger.Info("check-in queued",
		logging.String(logging.FieldClientKey, item.ClientKey),
		logging.Int64(logging.FieldPlaceID, item.PlaceID),
		logging.Int(logging.FieldPending, pending),
	)
	if err := e.persist(ctx); err != nil {
		return fmt.Errorf("persist queued check-in: %w", err)
	}
	return nil
}

// persist writes the latest state. saveMu orders concurrent writers so the
// last completed write always reflects the newest queue.
func (e *Engine) persist(ctx context.Context) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	snapshot := e.Snapshot()
	return e.store.Save(ctx, &snapshot)
}

// TriggerAsync starts a pass on its own goroutine and returns immediately.
// The pass is detached from ctx cancellation; use Wait to block until it ends.
func (e *Engine) TriggerAsync(ctx context.Context) {
	detached := context.WithoutCancel(ctx)
	e.passes.Go(func() {
		e.Trigger(detached)
	})
}

// Wait blocks until every pass started by TriggerAsync has finished.
func (e *Engine) Wait() {
	e.passes.Wait()
}

// Trigger runs one delivery pass unless one is already running, in which case
// it returns immediately with Ran false.
func (e *Engine) Trigger(ctx context.Context) (result PassResult) {
	e.mu.Lock()
	if e.sending {
		e.mu.Unlock()
		e.logger.Debug("delivery pass already running; trigger dropped")
		return PassResult{Pending: e.Pending()}
	}
	e.sending = true
	snapshot := make([]checkin.QueuedCheckin, len(e.queue))
	copy(snapshot, e.queue)
	e.mu.Unlock()

	result = PassResult{Ran: true, PassID: e.newPassID()}
	ctx = logging.WithPassID(ctx, result.PassID)
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("delivery pass aborted",
				logging.String("panic", fmt.Sprint(r)),
				logging.Int("delivered", result.Delivered),
			)
		}
		e.mu.Lock()
		e.sending = false
		result.Pending = len(e.queue)
		e.mu.Unlock()
		result.Duration = time.Since(started)
	}()

	if len(snapshot) == 0 {
		return result
	}
	logger.Debug("delivery pass started", logging.Int(logging.FieldPending, len(snapshot)))

	for _, item := range snapshot {
		result.Attempted++
		itemLogger := logger.With(logging.String(logging.FieldClientKey, item.ClientKey))
		if err := e.deliverer.Deliver(ctx, e.teamID, item); err != nil {
			result.Failed++
			attrs := []logging.Attr{logging.Error(err)}
			var derr *checkin.DeliveryError
			if errors.As(err, &derr) && derr.StatusCode != 0 {
				attrs = append(attrs, logging.Int(logging.FieldStatusCode, derr.StatusCode))
			}
			itemLogger.Warn("check-in delivery failed; will retry on next sync", logging.Args(attrs...)...)
			continue
		}
		result.Delivered++
		if !e.remove(item.ClientKey) {
			itemLogger.Debug("delivered check-in already gone from queue")
		}
		if err := e.persist(ctx); err != nil {
			itemLogger.Error("persist queue after delivery failed", logging.Error(err))
		}
		itemLogger.Info("check-in delivered")
	}

	logger.Info("delivery pass finished",
		logging.Int("delivered", result.Delivered),
		logging.Int("failed", result.Failed),
		logging.Duration("duration", time.Since(started)),
	)
	return result
}

// remove drops the item with clientKey from the live queue.
func (e *Engine) remove(clientKey string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, queued := range e.queue {
		if queued.ClientKey == clientKey {
			e.queue = append(e.queue[:i:i], e.queue[i+1:]...)
			return true
		}
	}
	return false
}

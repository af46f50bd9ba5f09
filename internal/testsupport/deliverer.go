package testsupport

import (
	"context"
	"sync"

	"checkinq/internal/checkin"
)

// Deliverer is a scriptable fake remote. It records every attempt and fails
// the client keys registered with Fail.
type Deliverer struct {
	mu       sync.Mutex
	failures map[string]error
	failAll  error
	calls    []string
	gate     chan struct{}
	started  chan string
	hook     func(checkin.QueuedCheckin)
}

// NewDeliverer returns a Deliverer that accepts everything.
func NewDeliverer() *Deliverer {
	return &Deliverer{failures: make(map[string]error)}
}

// Fail makes deliveries of clientKey return err.
func (d *Deliverer) Fail(clientKey string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[clientKey] = err
}

// FailAll makes every delivery return err; pass nil to accept again.
func (d *Deliverer) FailAll(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failAll = err
}

// Block makes every Deliver call wait until Release. Started receives the
// client key of each call as it begins.
func (d *Deliverer) Block() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gate = make(chan struct{})
	d.started = make(chan string, 64)
}

// Started reports client keys as blocked deliveries begin.
func (d *Deliverer) Started() <-chan string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Release unblocks pending and future Deliver calls.
func (d *Deliverer) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gate != nil {
		close(d.gate)
		d.gate = nil
	}
}

// OnDeliver registers fn to run inside every Deliver call before it returns.
func (d *Deliverer) OnDeliver(fn func(checkin.QueuedCheckin)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hook = fn
}

// Deliver records the attempt and returns the scripted result.
func (d *Deliverer) Deliver(ctx context.Context, teamID int64, item checkin.QueuedCheckin) error {
	d.mu.Lock()
	d.calls = append(d.calls, item.ClientKey)
	gate, started, hook := d.gate, d.started, d.hook
	failure := d.failures[item.ClientKey]
	if failure == nil {
		failure = d.failAll
	}
	d.mu.Unlock()

	if gate != nil {
		started <- item.ClientKey
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if hook != nil {
		hook(item)
	}
	if failure != nil {
		return &checkin.DeliveryError{ClientKey: item.ClientKey, Err: failure}
	}
	return nil
}

// Calls returns the client keys attempted so far, in order.
func (d *Deliverer) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

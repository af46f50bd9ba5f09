// Package checkin defines the check-in domain model shared by the queue,
// delivery, and sync packages.
//
// A QueuedCheckin is created once, at enqueue time, and never mutated
// afterwards. Its ClientKey is the only deduplication token the remote side
// sees, so it must survive restarts byte-for-byte. The package also owns the
// photo Encoder and the error taxonomy (ErrInvalidInput, ErrCorruptState,
// ErrDelivery, ErrNoSession) that callers classify with errors.Is.
package checkin

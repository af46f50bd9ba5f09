// Package queue persists the check-in manager's state as a single durable
// record.
//
// The Store serializes the whole ManagerState (team id plus ordered pending
// check-ins) on every Save and overwrites the previous record in one write, so
// a reader of the medium only ever sees a complete snapshot. Load
// distinguishes a missing record (nil state, nil error) from a record that
// exists but cannot be decoded (ErrCorruptState); a corrupt record is never
// treated as an empty session.
//
// The medium is a capability, not a global: pass a SQLite-backed
// kvstore.Store in production and a MemoryMedium in tests.
package queue

// Package kvstore persists string records in a single SQLite table.
//
// It is the durable medium behind the check-in queue: each Set replaces one
// row inside SQLite's own transaction, so a reader sees either the previous
// value or the new one. Busy errors from concurrent processes are retried with
// bounded backoff.
package kvstore

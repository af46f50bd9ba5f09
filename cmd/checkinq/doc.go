// Package main hosts the checkinq CLI entrypoint and command graph.
//
// The Cobra-based command tree stands in for the game UI: it starts a team
// session, queues photo check-ins at places, reports sync status, drains the
// queue on demand, and scaffolds configuration. Commands that queue or sync
// wait for the delivery pass to finish before the process exits.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through commands and flags.
package main

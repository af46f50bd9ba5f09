// Package syncengine owns a team's live check-in queue and drains it to the
// remote service.
//
// At most one delivery pass runs at a time; a trigger that arrives while a
// pass is running is dropped, not queued. Each pass walks a snapshot of the
// queue taken when it starts, removes delivered items from the live queue by
// client key, and persists the queue after every removal. Failed items stay
// queued for a later trigger.
package syncengine

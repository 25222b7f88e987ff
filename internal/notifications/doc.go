// Package notifications keeps the signed-in user's notification list in
// memory and in sync with the backend.
//
// # Reads
//
// Load fetches the newest MaxItems notifications and replaces the held list
// in one step. Loads may overlap; whichever response is applied last wins,
// and the held list is always exactly one response's rows. A failed load
// leaves the held list untouched and moves the engine to LoadFailed; calling
// Load again retries.
//
// # Writes
//
// MarkRead and MarkAllRead are optimistic: the held list is updated and an
// events.UnreadCountStale is published before the backend is called. A
// remote failure is never rolled back locally. It is handed to the engine's
// FailurePolicy and returned to the caller wrapped in common.ErrNetwork.
// Read is terminal: ids read during the session stay read across reloads.
//
// # Badge
//
// Badge listens on the event bus and recomputes the unread count from the
// engine on every signal.
package notifications

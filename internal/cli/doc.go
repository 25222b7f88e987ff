// Package cli is the interactive Housers client: a read-eval-print loop over
// the notification engine, the mention resolver, avatars, the price filter
// and the discover import.
//
// NewApp wires every collaborator from a config.Config; Run restores the
// previous session, refreshes notifications in the background and reads
// commands from stdin until "exit".
package cli

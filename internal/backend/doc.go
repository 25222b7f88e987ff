// Package backend contains the client's view of the hosted backend.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts for the three collaborators the client
//     needs: ProfileDirectory (profiles table), NotificationStore
//     (notifications table) and Authenticator (sign-in, password reset).
//  2. RESTClient, the production implementation speaking the backend's
//     PostgREST-style HTTP API. It injects the project API key and the
//     session's bearer token and maps HTTP outcomes to sentinel errors.
//  3. Memory, an in-process implementation for tests and demo mode.
//  4. Composite, which pairs any DataStore with any Authenticator.
//
// A direct PostgreSQL implementation lives in the postgres subpackage.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable (transport failure or 5xx), ErrUnauthorized
// (401/403), ErrNotFound (single-row lookup with no match). A set-valued
// lookup that matches nothing is an empty slice, not an error.
//
// # Concurrency & Contexts
//
// Implementations are safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package backend

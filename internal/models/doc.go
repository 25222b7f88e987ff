// Package models defines the client-side domain types shared by the backend
// adapters, the local repositories and the logic units: profiles,
// notifications and mention tokens.
//
// Identifiers are the backend's UUID strings. JSON tags follow the backend's
// column names so the same structs decode REST responses directly.
package models

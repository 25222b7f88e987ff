// Package migrations embeds the PostgreSQL schema for the profiles and
// notifications tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

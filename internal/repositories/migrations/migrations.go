// Package migrations embeds the goose SQL migrations for each SQL backend.
package migrations

import "embed"

// Postgres holds the PostgreSQL schema under the "postgres" directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the SQLite schema under the "sqlite" directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Package migrations embeds the SQL schema migrations for the SQLite store.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS

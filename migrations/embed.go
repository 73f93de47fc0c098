// Package migrations embeds the SQL migration files so the binary is
// self-contained: no external schema files are needed at runtime.
//
// Filenames follow YYYYMMDD_HHMMSS_description.up.sql and are applied
// in lexicographic (timestamp) order by the database package.
package migrations

import "embed"

// FS contains all embedded migration files.
//
//go:embed *.sql
var FS embed.FS

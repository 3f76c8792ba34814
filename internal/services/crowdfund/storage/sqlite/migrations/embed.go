package migrations

import "embed"

// FS contains embedded SQLite migrations for crowdfund storage.
//
//go:embed *.sql
var FS embed.FS

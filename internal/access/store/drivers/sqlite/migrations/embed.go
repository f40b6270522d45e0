// Package migrations embeds the SQL migration files for the sqlite driver.
package migrations

import "embed"

// Migrations holds the migration files compiled into the binary so a
// deployment never depends on files on disk.
//
//go:embed *.sql
var Migrations embed.FS

// Package migrations holds the Postgres schema for the question bank and teacher roster.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied by the migrate command.
var Migrations = migrate.NewMigrations()

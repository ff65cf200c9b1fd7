package historymigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the history module migrations.
var Migrations = migrate.NewMigrations()

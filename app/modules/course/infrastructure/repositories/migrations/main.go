package coursemigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the course module migrations.
var Migrations = migrate.NewMigrations()

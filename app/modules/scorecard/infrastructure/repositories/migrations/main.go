package scorecardmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the scorecard module migrations.
var Migrations = migrate.NewMigrations()

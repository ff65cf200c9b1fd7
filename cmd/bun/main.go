package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	courseservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/application"
	coursedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	// Import for migrator creation
	coursemigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories/migrations"
	historymigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/infrastructure/repositories/migrations"
	scorecardmigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/infrastructure/repositories/migrations"
)

func main() {
	// Load configuration for database connection ONLY
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres dsn is not configured")
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	migrators := map[string]*migrate.Migrator{
		"course":    migrate.NewMigrator(db, coursemigrations.Migrations, migrate.WithTableName("course_migrations"), migrate.WithLocksTableName("course_migration_locks")),
		"scorecard": migrate.NewMigrator(db, scorecardmigrations.Migrations, migrate.WithTableName("scorecard_migrations"), migrate.WithLocksTableName("scorecard_migration_locks")),
		"history":   migrate.NewMigrator(db, historymigrations.Migrations, migrate.WithTableName("history_migrations"), migrate.WithLocksTableName("history_migration_locks")),
		"player":    migrate.NewMigrator(db, playermigrations.Migrations, migrate.WithTableName("player_migrations"), migrate.WithLocksTableName("player_migration_locks")),
	}

	if err := newApp(migrators, cfg.Postgres.DSN, db).Run(cliArgs(os.Args[0], flag.Args())); err != nil {
		log.Fatal(err)
	}
}

func newApp(migrators map[string]*migrate.Migrator, dsn string, db *bun.DB) *cli.App {
	return &cli.App{
		Name: "bun",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(migrators, dsn),
			newCourseCommand(db),
		},
	}
}

// cliArgs restores the program name that flag.Args strips, since cli treats
// the first argument as the program.
func cliArgs(program string, args []string) []string {
	return append([]string{program}, args...)
}

// moduleNames returns migrator names in a stable order.
func moduleNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newMultiModuleDBCommand(migrators map[string]*migrate.Migrator, dsn string) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleNames(migrators) {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrators[moduleName].Init(c.Context); err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database, including the River queue tables",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleNames(migrators) {
						fmt.Printf("Running migrations for module: %s\n", moduleName)
						group, err := migrators[moduleName].Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}
					return migrateRiver(c.Context, dsn, rivermigrate.DirectionUp)
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleNames(migrators) {
						fmt.Printf("Rolling back migrations for module: %s\n", moduleName)
						group, err := migrators[moduleName].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "river_down",
				Usage: "remove the River queue tables",
				Action: func(c *cli.Context) error {
					return migrateRiver(c.Context, dsn, rivermigrate.DirectionDown)
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "create_sql",
				Usage: "create up and down SQL migrations",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleNames(migrators) {
						ms, err := migrators[moduleName].MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func migrateRiver(ctx context.Context, dsn string, direction rivermigrate.Direction) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, direction, nil)
	if err != nil {
		return fmt.Errorf("river migration failed: %w", err)
	}
	for _, v := range res.Versions {
		fmt.Printf("River migration %s: version %d\n", direction, v.Version)
	}
	return nil
}

func newCourseCommand(db *bun.DB) *cli.Command {
	return &cli.Command{
		Name:  "course",
		Usage: "course layouts",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import tees from a course YAML file",
				ArgsUsage: "<file.yaml>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("course file is required")
					}
					f, err := os.Open(name)
					if err != nil {
						return err
					}
					defer f.Close()

					tees, err := courseservice.ParseCourseFile(f)
					if err != nil {
						return err
					}
					svc := courseservice.NewCourseService(coursedb.NewRepository(db), nil, nil, nil, db)
					for _, tee := range tees {
						if err := svc.ImportTee(c.Context, tee); err != nil {
							return err
						}
						fmt.Printf("Imported %s/%s (par %d, %d yards)\n", tee.CourseID(), tee.Name(), tee.Par(), tee.Yardage())
					}
					return nil
				},
			},
		},
	}
}

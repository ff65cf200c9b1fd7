// Package testutils starts the Postgres and NATS containers shared by the
// integration suites.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"

	_ "github.com/jackc/pgx/v5/stdlib"

	coursemigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories/migrations"
	historymigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/infrastructure/repositories/migrations"
	scorecardmigrations "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-scorecard/integration_tests/containers"
)

// TestEnvironment holds the containers and connections for a test package.
type TestEnvironment struct {
	Ctx           context.Context
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DB            *bun.DB
	DSN           string
	NatsURL       string
}

var (
	sharedEnv  *TestEnvironment
	sharedErr  error
	sharedOnce sync.Once
)

// GetTestEnv returns the package-wide environment, starting it on first use.
// Tests are skipped in -short mode or when INTEGRATION_TESTS=off.
func GetTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") == "off" {
		t.Skip("skipping integration test")
	}

	sharedOnce.Do(func() {
		sharedEnv, sharedErr = newTestEnvironment(context.Background())
	})
	if sharedErr != nil {
		t.Fatalf("failed to set up integration environment: %v", sharedErr)
	}
	return sharedEnv
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		cleanupContainers(ctx, pgContainer, natsContainer)
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		cleanupContainers(ctx, pgContainer, natsContainer)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:           ctx,
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		DB:            db,
		DSN:           dsn,
		NatsURL:       natsURL,
	}, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	sets := map[string]*migrate.Migrations{
		"course":    coursemigrations.Migrations,
		"scorecard": scorecardmigrations.Migrations,
		"history":   historymigrations.Migrations,
		"player":    playermigrations.Migrations,
	}
	for name, migrations := range sets {
		migrator := migrate.NewMigrator(db, migrations,
			migrate.WithTableName(name+"_migrations"),
			migrate.WithLocksTableName(name+"_migration_locks"),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("run %s migrations: %w", name, err)
		}
	}
	return nil
}

// CleanTables truncates the given tables between tests.
func (env *TestEnvironment) CleanTables(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := env.DB.ExecContext(env.Ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// Shutdown closes connections and terminates the containers.
func Shutdown() {
	if sharedEnv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sharedEnv.DB.Close()
	cleanupContainers(ctx, sharedEnv.PgContainer, sharedEnv.NatsContainer)
}

func cleanupContainers(ctx context.Context, pg *postgres.PostgresContainer, nc *nats.NATSContainer) {
	if pg != nil {
		if err := pg.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate postgres container: %v", err)
		}
	}
	if nc != nil {
		if err := nc.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
}

// Package testutil provides shared test helpers: game content loading, a
// PostgreSQL container, and a conformance suite for character repositories.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/chatrpg/internal/config"
	"github.com/cory-johannsen/chatrpg/internal/storage/postgres"
)

// Environment variables that enable PostgreSQL integration tests.
const (
	EnvTestDSN        = "TEST_DSN"
	EnvTestContainers = "RPG_TESTCONTAINERS"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}
	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}
	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})
	return pc
}

// ApplyMigrations executes every migrations/*.up.sql file in version order.
//
// Precondition: Pool must be connected.
// Postcondition: The schema exists in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	applyMigrations(t, pc.RawPool)
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}

// NewPool returns a migrated, empty database for an integration test.
//
// An existing server named by TEST_DSN is preferred; otherwise a container is
// started when RPG_TESTCONTAINERS=1. With neither set the test is skipped.
//
// Postcondition: All character tables exist and are empty.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	var pool *pgxpool.Pool
	switch {
	case os.Getenv(EnvTestDSN) != "":
		p, err := pgxpool.New(ctx, os.Getenv(EnvTestDSN))
		if err != nil {
			t.Fatalf("connecting to %s: %v", EnvTestDSN, err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			t.Fatalf("pinging %s: %v", EnvTestDSN, err)
		}
		t.Cleanup(p.Close)
		pool = p
	case os.Getenv(EnvTestContainers) == "1":
		pool = NewPostgresContainer(t).RawPool
	default:
		t.Skipf("set %s or %s=1 to run PostgreSQL tests", EnvTestDSN, EnvTestContainers)
	}

	applyMigrations(t, pool)
	if _, err := pool.Exec(ctx, `TRUNCATE characters RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncating characters: %v", err)
	}
	return pool
}

func applyMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	start := time.Now()

	files, err := filepath.Glob(filepath.Join(RepoRoot(), "migrations", "*.up.sql"))
	if err != nil {
		t.Fatalf("listing migrations: %v", err)
	}
	sort.Strings(files)
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading migration %s: %v", f, err)
		}
		if _, err := pool.Exec(context.Background(), string(sql)); err != nil {
			t.Fatalf("applying migration %s: %v", filepath.Base(f), err)
		}
	}
	t.Logf("%d migrations applied [%s]", len(files), time.Since(start))
}

// NewPostgresContainerIfEnabled starts a container when RPG_TESTCONTAINERS=1
// and skips the test otherwise.
func NewPostgresContainerIfEnabled(t *testing.T) *PostgresContainer {
	t.Helper()
	if os.Getenv(EnvTestContainers) != "1" {
		t.Skipf("set %s=1 to run container tests", EnvTestContainers)
	}
	return NewPostgresContainer(t)
}

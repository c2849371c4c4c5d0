// Package infratest starts throwaway postgres and redis containers for
// integration tests. Callers skip when no container provider is available.
package infratest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/bagstore/internal/infra"
)

func dockerHostFiles() []string {
	files := []string{"/var/run/docker.sock"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(
			files,
			filepath.Join(home, ".docker", "run", "docker.sock"),
			filepath.Join(home, ".docker", "desktop", "docker.sock"),
			filepath.Join(home, ".testcontainers.properties"),
		)
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		files = append(files, filepath.Join(runtimeDir, "docker.sock"))
	}
	return files
}

// dockerConfigured reports whether any docker host is configured, the
// environment first and then the well known sockets and config files.
func dockerConfigured(getenv func(string) string, files []string) bool {
	for _, key := range []string{"DOCKER_HOST", "TESTCONTAINERS_DOCKER_SOCKET_OVERRIDE"} {
		if getenv(key) != "" {
			return true
		}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			return true
		}
	}
	return false
}

// skipWithoutProvider skips t when no docker host is configured or when the
// health check fails. testcontainers panics instead of skipping when it cannot
// find a docker host, so the panic is turned into a skip as well.
func skipWithoutProvider(t testing.TB, configured bool, healthCheck func()) {
	t.Helper()
	if !configured {
		t.Skip("docker is not available, skipping integration test")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("docker is not reachable, skipping integration test: %v", r)
		}
	}()
	healthCheck()
}

// RequireProvider skips t unless a healthy docker provider is reachable.
func RequireProvider(t *testing.T) {
	t.Helper()
	skipWithoutProvider(t, dockerConfigured(os.Getenv, dockerHostFiles()), func() {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	})
}

// migrationsDir walks up from the working directory to the module root.
func migrationsDir(t *testing.T) string {
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed getting working directory with error: %s", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("failed finding module root")
		}
		dir = parent
	}
}

// Postgres returns a migrated pool and its teardown.
func Postgres(t *testing.T, c context.Context) (*pgxpool.Pool, func()) {
	t.Helper()
	RequireProvider(t)

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("bagstore"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pool, err := infra.NewPool(c, pgConnStr, 4, 1)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}

	if err = infra.Migrate(c, pool, "file://"+migrationsDir(t), "bagstore"); err != nil {
		t.Fatalf("failed migrating database with error: %s", err)
	}

	return pool, func() {
		pool.Close()
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

// Redis returns a connected client and its teardown.
func Redis(t *testing.T, c context.Context) (*redis.Client, func()) {
	t.Helper()
	RequireProvider(t)

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	return redisClient, func() {
		redisClient.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

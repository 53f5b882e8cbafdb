package helper

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
)

// MustStartPostgresContainer starts a throwaway Postgres and returns its teardown
// function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs points the FEATUREGRAPH_DB_* variables at a test container.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("FEATUREGRAPH_DB_HOST", "localhost")
	t.Setenv("FEATUREGRAPH_DB_PORT", port)
	t.Setenv("FEATUREGRAPH_DB_DATABASE", testDatabaseName)
	t.Setenv("FEATUREGRAPH_DB_USERNAME", testDatabaseUser)
	t.Setenv("FEATUREGRAPH_DB_PASSWORD", testDatabasePassword)
	t.Setenv("FEATUREGRAPH_DB_SCHEMA", "public")
	t.Setenv("FEATUREGRAPH_DB_SSLMODE", "disable")
}

// NewTestDatabase connects with a debug logger on stderr.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(NewPrettyHandler(os.Stderr, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
	}))
	return NewDatabase("test", config, logger)
}

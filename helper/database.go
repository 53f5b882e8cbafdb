package helper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// ErrNilDatabase is returned by handlers constructed without a usable connection.
var ErrNilDatabase = errors.New("database connection is nil")

// DatabaseConfiguration holds the connection settings for the graph store.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the configuration from FEATUREGRAPH_DB_* environment
// variables. A .env file in the working directory is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, NewError("load .env", err)
	}

	config := &DatabaseConfiguration{
		Host:     os.Getenv("FEATUREGRAPH_DB_HOST"),
		Port:     os.Getenv("FEATUREGRAPH_DB_PORT"),
		Database: os.Getenv("FEATUREGRAPH_DB_DATABASE"),
		Username: os.Getenv("FEATUREGRAPH_DB_USERNAME"),
		Password: os.Getenv("FEATUREGRAPH_DB_PASSWORD"),
		Schema:   os.Getenv("FEATUREGRAPH_DB_SCHEMA"),
		SSLMode:  os.Getenv("FEATUREGRAPH_DB_SSLMODE"),
	}

	if strings.TrimSpace(config.Host) == "" || strings.TrimSpace(config.Port) == "" ||
		strings.TrimSpace(config.Database) == "" || strings.TrimSpace(config.Username) == "" {
		return nil, NewError(
			"database configuration",
			fmt.Errorf("FEATUREGRAPH_DB_HOST, FEATUREGRAPH_DB_PORT, FEATUREGRAPH_DB_DATABASE and FEATUREGRAPH_DB_USERNAME must be set"),
		)
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfiguration) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.SSLMode, c.Schema,
	)
}

// Database bundles a connection with the logger handlers report through.
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens and pings a Postgres connection. On failure the error is
// logged and Instance stays nil, which handlers reject with ErrNilDatabase.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	db := &Database{
		Name:   name,
		Logger: logger,
	}

	instance, err := Connect(config)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("database", name), slog.String("error", err.Error()))
		return db
	}
	db.Instance = instance

	logger.Info("Connected to database", slog.String("database", name), slog.String("host", config.Host))

	return db
}

// Connect opens a connection pool and waits until the server answers.
func Connect(config *DatabaseConfiguration) (*sql.DB, error) {
	if config == nil {
		return nil, NewError("connect", fmt.Errorf("database configuration is nil"))
	}

	instance, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, NewError("open", err)
	}
	instance.SetMaxOpenConns(10)
	instance.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		if lastErr = instance.PingContext(ctx); lastErr == nil {
			return instance, nil
		}
		select {
		case <-ctx.Done():
			_ = instance.Close()
			return nil, NewError("ping", lastErr)
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		}
	}

	_ = instance.Close()
	return nil, NewError("ping", lastErr)
}

// Valid reports whether the database has an open connection.
func (d *Database) Valid() bool {
	return d != nil && d.Instance != nil
}

// Close closes the connection pool if one is open.
func (d *Database) Close() {
	if !d.Valid() {
		return
	}
	if err := d.Instance.Close(); err != nil {
		d.Logger.Error("Failed to close database", slog.String("database", d.Name), slog.String("error", err.Error()))
	}
}

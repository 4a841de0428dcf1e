package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	uuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/FACorreiaa/city-explorer-api/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const defaultRetries = 5

type DatabaseConfig struct {
	ConnectionURL string
}

// WaitForDB waits for the database connection pool to be available.
func WaitForDB(ctx context.Context, pgpool *pgxpool.Pool, logger *slog.Logger) bool {
	maxAttempts := defaultRetries
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := pgpool.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful")
			return true
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.WarnContext(ctx, "Database ping failed, retrying...",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("wait_duration", waitDuration),
			slog.String("error", err.Error()),
		)
		if attempts < maxAttempts {
			time.Sleep(waitDuration)
		}
	}
	logger.ErrorContext(ctx, "Database connection failed after multiple retries")
	return false
}

// RunMigrations applies database migrations using the embedded filesystem.
func RunMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	sourceDriver, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		logger.Error("Failed to create migration source driver", slog.Any("error", err))
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		errMsg := "invalid database URL scheme for migrate, ensure it starts with postgresql://"
		logger.Error(errMsg, slog.String("url", databaseURL))
		return errors.New(errMsg)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, databaseURL)
	if err != nil {
		logger.Error("Failed to initialize migrate instance", slog.Any("error", err))
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.Any("error", err))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		logger.Warn("Could not determine migration version", slog.Any("error", err))
	} else {
		if dirty {
			// Critical state, likely needs manual intervention.
			logger.Error("DATABASE MIGRATION STATE IS DIRTY!", slog.Uint64("version", uint64(version)))
		} else {
			logger.Info("Database migrations applied successfully.", slog.Uint64("version", uint64(version)))
		}
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("Error closing migration source", slog.Any("error", srcErr))
	}
	if dbErr != nil {
		logger.Warn("Error closing migration database connection", slog.Any("error", dbErr))
	}

	return nil
}

// NewDatabaseConfig generates the database connection URL from configuration.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Postgres.Host == "" {
		errMsg := "Postgres configuration is missing or invalid"
		logger.Error(errMsg)
		return nil, errors.New(errMsg)
	}

	sslMode := cfg.Repositories.Postgres.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("timezone", "utc")

	connURL := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(cfg.Repositories.Postgres.Username, cfg.Repositories.Postgres.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Repositories.Postgres.Host, cfg.Repositories.Postgres.Port),
		Path:     cfg.Repositories.Postgres.DB,
		RawQuery: query.Encode(),
	}

	connStr := connURL.String()
	logger.Info("Database connection URL generated", slog.String("host", connURL.Host), slog.String("database", connURL.Path))

	return &DatabaseConfig{
		ConnectionURL: connStr,
	}, nil
}

// Init initializes the pgxpool connection pool.
func Init(connectionURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("Initializing database connection pool...")
	cfg, err := pgxpool.ParseConfig(connectionURL)
	if err != nil {
		logger.Error("Failed to parse database config", slog.Any("error", err))
		return nil, fmt.Errorf("failed parsing db config: %w", err)
	}

	// Register UUID type handler after connecting
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		uuid.Register(conn.TypeMap())
		logger.DebugContext(ctx, "Registered UUID type handler")
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to create database connection pool", slog.Any("error", err))
		return nil, fmt.Errorf("failed creating db pool: %w", err)
	}

	logger.Info("Database connection pool initialized")
	return pool, nil
}

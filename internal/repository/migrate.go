package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// Registers the "pgx" driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shivanshkc/ghauth/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// defaultTimeout is used when the config does not specify a database timeout.
const defaultTimeout = 10 * time.Second

// Connect opens the Postgres connection pool and verifies it with a ping.
func Connect(ctx context.Context, conf config.Config) (*sql.DB, error) {
	database, err := sql.Open("pgx", dsn(conf))
	if err != nil {
		return nil, fmt.Errorf("error in sql.Open call: %w", err)
	}

	timeout := conf.Database.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("error in PingContext call: %w", err)
	}

	return database, nil
}

// Migrate brings the schema up to the latest version.
func Migrate(database *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("error in iofs.New call: %w", err)
	}

	driver, err := migratepgx.WithInstance(database, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("error in pgx.WithInstance call: %w", err)
	}

	migration, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("error in migrate.NewWithInstance call: %w", err)
	}

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error in migration.Up call: %w", err)
	}

	version, dirty, _ := migration.Version()
	slog.Info("database schema is up to date", "version", version, "dirty", dirty)
	return nil
}

// dsn builds the Postgres connection string from the config.
func dsn(conf config.Config) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(conf.Database.Username, conf.Database.Password),
		Host:   conf.Database.Addr,
		Path:   "/" + conf.Database.Database,
	}
	return u.String()
}

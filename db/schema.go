// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to the database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// DriverName maps a database type to its database/sql driver.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case TypePostgres:
		return "postgres", nil
	case TypeSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported database type %q", dbType)
}

// Dialect maps a database type to its goqu dialect.
func Dialect(dbType string) string {
	if dbType == TypeSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Migrate applies all pending migrations. It uses its own connection
// because closing the migrator closes the connection it was given.
// Safe to call multiple times.
func Migrate(dbType, url string) error {
	conn, err := Open(dbType, url)
	if err != nil {
		return err
	}

	var driver database.Driver
	switch dbType {
	case TypePostgres:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	case TypeSQLite:
		driver, err = sqlite.WithInstance(conn, &sqlite.Config{})
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbType, driver)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Package sqldb implements the domain repositories on top of database/sql.
// PostgreSQL, MySQL and SQLite are supported through small dialect tables.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names accepted by Open.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

type dialect struct {
	driver string
	// numbered placeholders ($1, $2) instead of "?"
	numbered bool
	// INSERT ... RETURNING id instead of LastInsertId
	returning bool
	schema    []string
}

var dialects = map[string]dialect{
	Postgres: {
		driver:    "postgres",
		numbered:  true,
		returning: true,
		schema: []string{
			"CREATE TABLE IF NOT EXISTS measurements (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, weight DOUBLE PRECISION NOT NULL, height DOUBLE PRECISION NULL, fat_percentage DOUBLE PRECISION NOT NULL, date TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
			"CREATE INDEX IF NOT EXISTS idx_measurements_name ON measurements(name);",
			"CREATE TABLE IF NOT EXISTS sessions (token_hash TEXT PRIMARY KEY, name TEXT NOT NULL, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
			"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		},
	},
	MySQL: {
		driver: "mysql",
		schema: []string{
			"CREATE TABLE IF NOT EXISTS measurements (id BIGINT AUTO_INCREMENT PRIMARY KEY, name VARCHAR(255) NOT NULL, weight DOUBLE NOT NULL, height DOUBLE NULL, fat_percentage DOUBLE NOT NULL, date VARCHAR(32) NOT NULL, created_at DATETIME(6) NOT NULL, INDEX idx_measurements_name (name));",
			"CREATE TABLE IF NOT EXISTS sessions (token_hash CHAR(64) PRIMARY KEY, name VARCHAR(255) NOT NULL, expires_at DATETIME(6) NOT NULL, created_at DATETIME(6) NOT NULL, INDEX idx_sessions_expires_at (expires_at));",
		},
	},
	SQLite: {
		driver: "sqlite",
		schema: []string{
			"CREATE TABLE IF NOT EXISTS measurements (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, weight REAL NOT NULL, height REAL NULL, fat_percentage REAL NOT NULL, date TEXT NOT NULL, created_at TIMESTAMP NOT NULL);",
			"CREATE INDEX IF NOT EXISTS idx_measurements_name ON measurements(name);",
			"CREATE TABLE IF NOT EXISTS sessions (token_hash TEXT PRIMARY KEY, name TEXT NOT NULL, expires_at TIMESTAMP NOT NULL, created_at TIMESTAMP NOT NULL);",
			"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		},
	},
}

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql     *sql.DB
	dialect dialect
}

// Open connects to the database named by dialectName and dsn, pings, and
// runs migrations.
func Open(dialectName, dsn string) (*DB, error) {
	d, err := openNoMigrate(dialectName, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.Migrate(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func openNoMigrate(dialectName, dsn string) (*DB, error) {
	dl, ok := dialects[dialectName]
	if !ok {
		return nil, fmt.Errorf("sqldb: unknown dialect %q", dialectName)
	}

	switch dialectName {
	case MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("sqldb: parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dsn = cfg.FormatDSN()
	case SQLite:
		dsn = sqlitePragmas(dsn)
	}

	s, err := sql.Open(dl.driver, dsn)
	if err != nil {
		return nil, err
	}
	if dialectName == SQLite {
		// single writer
		s.SetMaxOpenConns(1)
	} else {
		s.SetMaxOpenConns(10)
		s.SetMaxIdleConns(5)
	}
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &DB{sql: s, dialect: dl}, nil
}

func sqlitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Migrate creates the tables and indexes if they do not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range d.dialect.schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites "?" placeholders for dialects with numbered parameters.
func (d *DB) rebind(query string) string {
	if !d.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

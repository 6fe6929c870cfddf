package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	// Driver is DriverSQLite (default) or DriverPostgres.
	Driver string
	// DSN is a file path or sqlite URI for sqlite, a connection string for
	// postgres. Empty means the default file under the data dir.
	DSN string
	// Passphrase enables encryption of entry text when non-empty.
	Passphrase string
	Logger     *slog.Logger
}

// AppDataDir returns (and creates) the directory holding the local database.
func AppDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "magicmind")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		dir, err := AppDataDir()
		if err != nil {
			return "", err
		}
		dsn = filepath.Join(dir, "magicmind.db")
	}
	if strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn, nil
	}
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		dsn,
	), nil
}

// Open connects to the configured database, applies the schema and, when a
// passphrase is set, unlocks encryption.
func Open(ctx context.Context, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := opts.DSN
	switch driver {
	case DriverSQLite:
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	dbh, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases alive across calls.
		dbh.SetMaxOpenConns(1)
	}
	if err := dbh.PingContext(ctx); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}

	s := &Store{db: dbh, driver: driver, log: log}
	if opts.Passphrase != "" {
		km, err := unlock(ctx, s, opts.Passphrase)
		if err != nil {
			_ = dbh.Close()
			return nil, err
		}
		s.keys = km
	}
	log.Debug("database opened", "driver", driver, "encrypted", s.keys != nil)
	return s, nil
}

func migrate(ctx context.Context, dbh *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := dbh.ExecContext(ctx, string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// rebind rewrites "?" placeholders to "$n" for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

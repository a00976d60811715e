// Package database opens the relational store and manages its schema.
package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/schooladmin/core"
)

// sqliteDriver is the name modernc.org/sqlite registers itself under.
const sqliteDriver = "sqlite"

func init() {
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

func open(dbName string, admin bool, conf *core.Config) (*sql.DB, error) {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   core.EnginePostgres,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sql.Open(core.EnginePostgres, u.String())
}

// Open opens the configured database engine.
func Open(conf *core.Config) (*sqlx.DB, error) {
	switch conf.Database.Engine {
	case core.EngineSQLite:
		return OpenSQLite(conf.Database.Path)
	case core.EnginePostgres:
		db, err := open(conf.Database.Name, false, conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		return sqlx.NewDb(db, core.EnginePostgres), nil
	}
	return nil, fmt.Errorf("unsupported database engine %q", conf.Database.Engine)
}

// OpenSQLite opens (creating if needed) the SQLite file at path with foreign keys enforced.
func OpenSQLite(path string) (*sqlx.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	q := make(url.Values)
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_time_format", "sqlite")
	dsn := filepath.Clean(path) + "?" + q.Encode()

	db, err := sqlx.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	// one writer at a time: a shared connection serialises the transactions
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging sqlite database")
	}
	return db, nil
}

// Dialect returns the engine a connection was opened with.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == sqliteDriver {
		return core.EngineSQLite
	}
	return core.EnginePostgres
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func exists(db *sql.DB, query, name string) (bool, error) {
	var found bool
	rows, err := db.Query(query, name)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err = rows.Scan(&found); err != nil {
			return false, err
		}
	}
	return found, rows.Err()
}

func createAppUser(db *sql.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		// identifiers and passwords cannot be bound in DDL
		q := fmt.Sprintf(
			"CREATE USER %s CREATEDB ENCRYPTED PASSWORD %s",
			pq.QuoteIdentifier(conf.Database.User), pq.QuoteLiteral(conf.Database.Password),
		)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sql.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the PostgreSQL app user and database. SQLite files are created on open.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	// connect as admin
	db, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(db, conf); err != nil {
		return errors.Wrap(err, "creating app user")
	}

	// create DB as app user
	appDB, err := open("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = appDB.Close() }()
	return createDB(appDB, conf)
}

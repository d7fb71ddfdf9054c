// Package database opens the SQL databases backing the sqlkv storage and applies their migrations.
package database

import (
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/deptportal/core"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

const MigrationsDir = "migrations"

// Driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DriverName maps a storage engine to its database/sql driver.
func DriverName(engine string) (string, error) {
	switch engine {
	case core.EnginePostgres:
		return DriverPostgres, nil
	case core.EngineSQLite:
		return DriverSQLite, nil
	default:
		return "", errors.Errorf("%q is not a SQL storage engine", engine)
	}
}

func postgresURL(dbName string, admin bool, conf core.DatabaseConfig) string {
	user := url.UserPassword(conf.User, conf.Password)
	if admin && conf.AdminUser != "" {
		user = url.UserPassword(conf.AdminUser, conf.AdminPassword)
	}

	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     conf.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func sqlitePath(path string) string {
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// Open connects to the database selected by the storage engine: Postgres, or the SQLite file at conf.Storage.Path.
func Open(conf *core.Config) (*sqlx.DB, error) {
	driver, err := DriverName(conf.Storage.Engine)
	if err != nil {
		return nil, err
	}
	var dsn string
	switch driver {
	case DriverPostgres:
		dsn = postgresURL(conf.Storage.Database.Name, false, conf.Storage.Database)
	case DriverSQLite:
		dsn = sqlitePath(conf.Storage.Path)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenURL connects to a Postgres database given as a URL.
func OpenURL(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB, maxAttempts int) error {
	var err error
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

func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found []bool
	if err := db.Select(&found, query, args...); err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func createAppUser(db *sqlx.DB, conf core.DatabaseConfig) error {
	if conf.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD %s", pq.QuoteIdentifier(conf.User), pq.QuoteLiteral(conf.Password))
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sqlx.DB, conf core.DatabaseConfig) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(conf.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the Postgres app user and database when missing. SQLite files are created on open.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Storage.Engine != core.EnginePostgres {
		return nil
	}
	dbConf := conf.Storage.Database

	// connect as admin
	admin, err := sqlx.Open(DriverPostgres, postgresURL("postgres", true, dbConf))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = admin.Close() }()
	if err = Ping(admin, 30); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	if err = createAppUser(admin, dbConf); err != nil {
		return err
	}

	// create DB as app user
	app, err := sqlx.Open(DriverPostgres, postgresURL("postgres", false, dbConf))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = app.Close() }()
	return createDB(app, dbConf)
}

// RunMigrations runs a goose command (up, down, status, ...) against the embedded migrations.
func RunMigrations(db *sqlx.DB, command string, args ...string) error {
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunFS(command, db.DB, MigrationsFS, MigrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrate %s", command)
	}
	return nil
}

// Migrate applies every pending migration.
func Migrate(db *sqlx.DB) error {
	return RunMigrations(db, "up")
}

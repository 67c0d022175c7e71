package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/ceka/errors"
)

// SQLiteBusyTimeoutMS is how long SQLite waits on a locked database
const SQLiteBusyTimeoutMS = 5000

// DefaultMySQLPort is used when an ADO.NET descriptor names no PORT
const DefaultMySQLPort = "3306"

// Registered driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Source is a parsed connection descriptor
type Source struct {
	Driver  string
	DSN     string
	Dialect Dialect

	// Display is the DSN with any password masked, for logs
	Display string
}

// ParseDescriptor resolves a connection descriptor into a driver and DSN.
//
// Accepted forms:
//   - sqlite://<path>, file:<path>, :memory:, or a path ending in .db, .sqlite, .sqlite3
//   - postgres://... or postgresql://...
//   - mysql://<go-sql-driver DSN>
//   - SERVER=host;DATABASE=db;UID=user;PASSWORD=pw;[PORT=n;] (MySQL)
//
// A non-empty driver forces that driver and passes the descriptor through.
func ParseDescriptor(descriptor, driver string) (Source, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return Source{}, errors.New("empty connection descriptor")
	}

	if driver != "" {
		return forced(descriptor, driver)
	}

	lower := strings.ToLower(descriptor)
	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		return sqliteSource(descriptor[len("sqlite://"):]), nil
	case strings.HasPrefix(lower, "sqlite3://"):
		return sqliteSource(descriptor[len("sqlite3://"):]), nil
	case strings.Contains(lower, "server=") && strings.Contains(descriptor, ";"):
		return adoSource(descriptor)
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return sqliteSource(descriptor), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgresSource(descriptor)
	case strings.HasPrefix(lower, "mysql://"):
		return mysqlSource(descriptor[len("mysql://"):])
	}

	return Source{}, errors.WithHint(
		errors.NewUnsupportedError("unrecognized connection descriptor"),
		"use sqlite://path, postgres://..., mysql://user:pw@tcp(host)/db or SERVER=..;DATABASE=..;UID=..;PASSWORD=..;")
}

func forced(descriptor, driver string) (Source, error) {
	switch strings.ToLower(driver) {
	case "sqlite", DriverSQLite:
		return sqliteSource(descriptor), nil
	case DriverPostgres, "postgresql":
		return Source{Driver: DriverPostgres, DSN: descriptor, Dialect: Postgres, Display: "<postgres dsn>"}, nil
	case DriverMySQL:
		return mysqlSource(descriptor)
	default:
		return Source{}, errors.NewUnsupportedError("driver %q is not supported", driver)
	}
}

func sqliteSource(path string) Source {
	return Source{Driver: DriverSQLite, DSN: path, Dialect: SQLite, Display: path}
}

func postgresSource(descriptor string) (Source, error) {
	u, err := url.Parse(descriptor)
	if err != nil {
		return Source{}, errors.Wrap(err, "invalid postgres URL")
	}
	return Source{Driver: DriverPostgres, DSN: descriptor, Dialect: Postgres, Display: u.Redacted()}, nil
}

func mysqlSource(dsn string) (Source, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return Source{}, errors.Wrap(err, "invalid mysql DSN")
	}
	return mysqlConfigSource(cfg), nil
}

func mysqlConfigSource(cfg *mysql.Config) Source {
	masked := cfg.Clone()
	if masked.Passwd != "" {
		masked.Passwd = "xxxxx"
	}
	return Source{Driver: DriverMySQL, DSN: cfg.FormatDSN(), Dialect: MySQL, Display: masked.FormatDSN()}
}

// adoSource converts SERVER=..;DATABASE=..;UID=..;PASSWORD=..; into a MySQL DSN
func adoSource(descriptor string) (Source, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"

	host, port := "", DefaultMySQLPort
	for _, part := range strings.Split(descriptor, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return Source{}, errors.Newf("connection descriptor part %q has no '='", part)
		}
		v = strings.TrimSpace(v)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "server", "host", "data source":
			host = v
		case "port":
			port = v
		case "database", "initial catalog":
			cfg.DBName = v
		case "uid", "user", "user id", "username":
			cfg.User = v
		case "password", "pwd":
			cfg.Passwd = v
		}
	}
	if host == "" {
		return Source{}, errors.New("connection descriptor names no SERVER")
	}
	if cfg.DBName == "" {
		return Source{}, errors.New("connection descriptor names no DATABASE")
	}
	cfg.Addr = net.JoinHostPort(host, port)
	return mysqlConfigSource(cfg), nil
}

// Open connects to the database a descriptor names and verifies the
// connection. If logger is provided, logs database operations; otherwise
// operates silently.
func Open(ctx context.Context, descriptor, driver string, logger *zap.SugaredLogger) (*sql.DB, Source, error) {
	src, err := ParseDescriptor(descriptor, driver)
	if err != nil {
		return nil, Source{}, err
	}
	if logger != nil {
		logger.Debugw("Opening database", "driver", src.Driver, "dsn", src.Display)
	}

	conn, err := sql.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, Source{}, errors.Wrapf(err, "failed to open %s database", src.Driver)
	}

	if src.Driver == DriverSQLite {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", SQLiteBusyTimeoutMS)); err != nil {
			conn.Close()
			return nil, Source{}, errors.Wrap(err, "failed to set busy timeout")
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, Source{}, errors.Wrapf(err, "failed to connect to %s database %s", src.Driver, src.Display)
	}

	if logger != nil {
		logger.Infow("Database opened successfully", "driver", src.Driver, "dsn", src.Display)
	}
	return conn, src, nil
}

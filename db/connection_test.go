package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/ceka/errors"
	cekatest "github.com/teranos/ceka/internal/testing"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		driver     string
		wantDriver string
		wantDSN    string
		dialect    Dialect
	}{
		{"sqlite scheme", "sqlite:///tmp/uhs.db", "", DriverSQLite, "/tmp/uhs.db", SQLite},
		{"sqlite3 scheme", "sqlite3://uhs", "", DriverSQLite, "uhs", SQLite},
		{"sqlite suffix", "data/uhs.sqlite3", "", DriverSQLite, "data/uhs.sqlite3", SQLite},
		{"sqlite memory", ":memory:", "", DriverSQLite, ":memory:", SQLite},
		{"sqlite file uri", "file:uhs.db?mode=ro", "", DriverSQLite, "file:uhs.db?mode=ro", SQLite},
		{"postgres url", "postgres://ceka:pw@localhost:5432/uhs?sslmode=disable", "", DriverPostgres,
			"postgres://ceka:pw@localhost:5432/uhs?sslmode=disable", Postgres},
		{"postgresql url", "postgresql://localhost/uhs", "", DriverPostgres, "postgresql://localhost/uhs", Postgres},
		{"forced sqlite", "uhs", "sqlite", DriverSQLite, "uhs", SQLite},
		{"forced postgres", "host=localhost dbname=uhs", "postgres", DriverPostgres, "host=localhost dbname=uhs", Postgres},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseDescriptor(tt.descriptor, tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, src.Driver)
			assert.Equal(t, tt.wantDSN, src.DSN)
			assert.Equal(t, tt.dialect, src.Dialect)
		})
	}
}

func TestParseDescriptor_MySQL(t *testing.T) {
	t.Run("ado.net style", func(t *testing.T) {
		src, err := ParseDescriptor("SERVER=db.local;DATABASE=uhs;UID=ceka;PASSWORD=secret;", "")
		require.NoError(t, err)
		assert.Equal(t, DriverMySQL, src.Driver)
		assert.Equal(t, MySQL, src.Dialect)
		assert.Contains(t, src.DSN, "ceka:secret@tcp(db.local:3306)/uhs")
		assert.NotContains(t, src.Display, "secret")
	})

	t.Run("ado.net style with port", func(t *testing.T) {
		src, err := ParseDescriptor("SERVER=db.local; PORT=3307; DATABASE=uhs; UID=ceka", "")
		require.NoError(t, err)
		assert.Contains(t, src.DSN, "ceka@tcp(db.local:3307)/uhs")
	})

	t.Run("mysql scheme", func(t *testing.T) {
		src, err := ParseDescriptor("mysql://ceka:pw@tcp(127.0.0.1:3306)/uhs", "")
		require.NoError(t, err)
		assert.Equal(t, DriverMySQL, src.Driver)
		assert.Contains(t, src.DSN, "ceka:pw@tcp(127.0.0.1:3306)/uhs")
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := ParseDescriptor("SERVER=db.local;UID=ceka;", "")
		assert.ErrorContains(t, err, "names no DATABASE")
	})

	t.Run("part without value", func(t *testing.T) {
		_, err := ParseDescriptor("SERVER=db.local;oops;DATABASE=uhs", "")
		assert.ErrorContains(t, err, `"oops" has no '='`)
	})
}

func TestParseDescriptor_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := ParseDescriptor("   ", "")
		assert.ErrorContains(t, err, "empty connection descriptor")
	})

	t.Run("unrecognized", func(t *testing.T) {
		_, err := ParseDescriptor("oracle://somewhere", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnsupported))
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("unknown forced driver", func(t *testing.T) {
		_, err := ParseDescriptor("uhs", "oracle")
		assert.ErrorContains(t, err, `driver "oracle" is not supported`)
	})
}

func TestDialect_Quote(t *testing.T) {
	assert.Equal(t, `"ward"`, SQLite.Quote("ward"))
	assert.Equal(t, `"we""ird"`, Postgres.Quote(`we"ird`))
	assert.Equal(t, "`ward`", MySQL.Quote("ward"))
	assert.Equal(t, "`we``ird`", MySQL.Quote("we`ird"))
	assert.Equal(t, []string{`"a"`, `"b"`}, SQLite.QuoteAll([]string{"a", "b"}))
}

func TestOpen(t *testing.T) {
	t.Run("opens sqlite database", func(t *testing.T) {
		path := cekatest.CreatePatientsDB(t)

		conn, src, err := Open(context.Background(), "sqlite://"+path, "", nil)
		require.NoError(t, err)
		defer conn.Close()
		assert.Equal(t, SQLite, src.Dialect)

		var n int
		require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM patients").Scan(&n))
		assert.Equal(t, 6, n)

		var busyTimeout int
		require.NoError(t, conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
		assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
	})

	t.Run("with logger", func(t *testing.T) {
		path := cekatest.CreatePatientsDB(t)

		conn, _, err := Open(context.Background(), path, "", zaptest.NewLogger(t).Sugar())
		require.NoError(t, err)
		conn.Close()
	})

	t.Run("unreachable sqlite path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "uhs.db")

		conn, _, err := Open(context.Background(), path, "", nil)
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.NotNil(t, errors.GetStack(err))
	})

	t.Run("bad descriptor", func(t *testing.T) {
		_, _, err := Open(context.Background(), "nonsense", "", nil)
		assert.Error(t, err)
	})
}

func TestIsDatabaseClosed(t *testing.T) {
	assert.False(t, IsDatabaseClosed(nil))
	assert.True(t, IsDatabaseClosed(errors.Wrap(ErrDatabaseClosed, "query")))
	assert.True(t, IsDatabaseClosed(errors.New("sql: database is closed")))
	assert.True(t, IsDatabaseClosed(errors.Wrap(sql.ErrConnDone, "scan")))
	assert.False(t, IsDatabaseClosed(errors.New("no such table")))
}

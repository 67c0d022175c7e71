package db

import (
	"database/sql"
	"strings"

	"github.com/teranos/ceka/errors"
)

// ErrDatabaseClosed marks an import whose connection went away before the
// rows were read
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err comes from a closed pool or a finished
// connection. database/sql returns the closed-pool error unexported, so it is
// matched on its text.
func IsDatabaseClosed(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.IsAny(err, ErrDatabaseClosed, sql.ErrConnDone):
		return true
	default:
		return strings.Contains(err.Error(), "database is closed")
	}
}

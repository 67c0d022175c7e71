// Package sqlimport builds datasets from relational tables
package sqlimport

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/db"
	"github.com/teranos/ceka/errors"
)

// Request describes one table import
type Request struct {
	Connection string
	Columns    []string
	Table      string

	// MinRange and MaxRange bound the inclusive, 0-based window of result
	// rows to keep; -1 leaves that side open
	MinRange int
	MaxRange int

	// FirstColumnNull and SecondColumnNull keep rows whose first or second
	// column is NULL; otherwise such rows are dropped
	FirstColumnNull  bool
	SecondColumnNull bool
}

// OpenFunc opens the database a descriptor names
type OpenFunc func(ctx context.Context, descriptor, driver string, logger *zap.SugaredLogger) (*sql.DB, db.Source, error)

// Importer turns table rows into a nominal dataset
type Importer struct {
	driver string
	open   OpenFunc
	log    *zap.SugaredLogger
}

// NewImporter creates an importer. driver forces a database driver for every
// descriptor and may be empty. A nil logger disables logging.
func NewImporter(driver string, log *zap.SugaredLogger) *Importer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Importer{driver: driver, open: db.Open, log: log}
}

// Import connects to req.Connection and reads req.Table
func (im *Importer) Import(ctx context.Context, req Request) (*arff.Dataset, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	conn, src, err := im.open(ctx, req.Connection, im.driver, im.log)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return im.ImportFrom(ctx, conn, src.Dialect, req)
}

// ImportFrom reads req.Table from an open connection
func (im *Importer) ImportFrom(ctx context.Context, conn *sql.DB, dialect db.Dialect, req Request) (*arff.Dataset, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	query := Query(dialect, req.Table, req.Columns)
	im.log.Debugw("Querying table", "table", req.Table, "columns", req.Columns, "query", query)

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		if db.IsDatabaseClosed(err) {
			return nil, errors.Mark(errors.Wrapf(err, "failed to query table %s", req.Table), db.ErrDatabaseClosed)
		}
		return nil, errors.Wrapf(err, "failed to query table %s", req.Table)
	}
	defer rows.Close()

	var records [][]string
	index := -1
	for rows.Next() {
		index++
		if req.MinRange >= 0 && index < req.MinRange {
			continue
		}
		if req.MaxRange >= 0 && index > req.MaxRange {
			break
		}

		cells := make([]sql.NullString, len(req.Columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrapf(err, "failed to scan row %d of %s", index, req.Table)
		}

		if !cells[0].Valid && !req.FirstColumnNull {
			continue
		}
		if len(cells) > 1 && !cells[1].Valid && !req.SecondColumnNull {
			continue
		}

		record := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			} else {
				record[i] = arff.Missing
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read table %s", req.Table)
	}

	if len(records) == 0 {
		return nil, errors.WithHint(
			errors.Newf("table %s returned no rows", req.Table),
			"check min-range, max-range and the column null flags")
	}

	ds := build(req.Table, req.Columns, records)
	im.log.Infow("Table imported", "table", req.Table, "rows", ds.Len(), "scanned", index+1)
	return ds, nil
}

// Query is the statement an import runs
func Query(dialect db.Dialect, table string, columns []string) string {
	return "SELECT " + strings.Join(dialect.QuoteAll(columns), ", ") +
		" FROM " + dialect.Quote(table) +
		" ORDER BY " + dialect.Quote(columns[0])
}

func checkRequest(req Request) error {
	if strings.TrimSpace(req.Table) == "" {
		return errors.WithHint(errors.New("no table to import"), "pass the table as -p=table:<name>")
	}
	if len(req.Columns) == 0 {
		return errors.New("no columns to import")
	}
	if req.MinRange >= 0 && req.MaxRange >= 0 && req.MinRange > req.MaxRange {
		return errors.Newf("min-range %d is greater than max-range %d", req.MinRange, req.MaxRange)
	}
	return nil
}

// build declares every column as nominal over its distinct values
func build(table string, columns []string, records [][]string) *arff.Dataset {
	attrs := make([]arff.Attribute, len(columns))
	for i, name := range columns {
		seen := map[string]bool{}
		var values []string
		for _, r := range records {
			v := r[i]
			if v == arff.Missing || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		sortValues(values)
		attrs[i] = arff.NominalAttribute(name, values...)
	}

	ds := arff.New(table, attrs...)
	ds.Rows = records
	return ds
}

// sortValues orders numerically when every value is a number
func sortValues(values []string) {
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			sort.Strings(values)
			return
		}
	}
	sort.Slice(values, func(i, j int) bool {
		a, _ := strconv.ParseFloat(values[i], 64)
		b, _ := strconv.ParseFloat(values[j], 64)
		return a < b
	})
}

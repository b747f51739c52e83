package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/simtab/internal/table"
)

// SQLite is a source backed by one table of a SQLite database.
//
// Simulation post-processing pipelines commonly land run output in
// SQLite; this source exposes one such table column-wise. Column types
// come from the declared schema, and every query carries an ORDER BY
// rowid so row order is deterministic across fetches.
type SQLite struct {
	name  string
	db    *sql.DB
	table string
	cols  []sqliteColumn
	names []string
}

type sqliteColumn struct {
	name string
	kind table.Kind
}

// OpenSQLite opens the database at path and introspects tableName.
//
// The connection is configured for read access with a busy timeout, and
// is limited to a single open connection to avoid SQLITE_BUSY errors.
func OpenSQLite(name, path, tableName string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("source %q: open database: %w", name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("source %q: connect: %w", name, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("source %q: apply pragma: %w", name, err)
	}

	s := &SQLite{name: name, db: db, table: tableName}
	if err := s.introspect(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Name returns the source name.
func (s *SQLite) Name() string {
	return s.name
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ValidNames returns the table's column names in schema order.
func (s *SQLite) ValidNames() []string {
	return s.names
}

// Fetch selects exactly the requested columns, in request order, with
// deterministic row order.
func (s *SQLite) Fetch(ctx context.Context, names []string) (*table.Table, error) {
	kinds := make([]table.Kind, len(names))
	quoted := make([]string, len(names))
	for i, n := range names {
		kind, ok := s.kindOf(n)
		if !ok {
			return nil, fmt.Errorf("source %q: unknown column %q", s.name, n)
		}
		kinds[i] = kind
		quoted[i] = quoteIdent(n)
	}

	if len(names) == 0 {
		return table.New()
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid",
		strings.Join(quoted, ", "), quoteIdent(s.table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("source %q: query: %w", s.name, err)
	}
	defer rows.Close()

	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column{Name: n, Kind: kinds[i]}
	}
	dests := make([]any, len(names))
	rowN := 0
	for rows.Next() {
		floats := make([]sql.NullFloat64, len(names))
		ints := make([]sql.NullInt64, len(names))
		bools := make([]sql.NullBool, len(names))
		strs := make([]sql.NullString, len(names))
		for i, kind := range kinds {
			switch kind {
			case table.Float:
				dests[i] = &floats[i]
			case table.Int:
				dests[i] = &ints[i]
			case table.Bool:
				dests[i] = &bools[i]
			default:
				dests[i] = &strs[i]
			}
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("source %q: scan: %w", s.name, err)
		}
		// NULLs are rejected rather than zero-filled: a zero is
		// indistinguishable from real data downstream.
		for i, kind := range kinds {
			switch kind {
			case table.Float:
				if !floats[i].Valid {
					return nil, fmt.Errorf("source %q: NULL in column %q at row %d", s.name, names[i], rowN)
				}
				cols[i].Floats = append(cols[i].Floats, floats[i].Float64)
			case table.Int:
				if !ints[i].Valid {
					return nil, fmt.Errorf("source %q: NULL in column %q at row %d", s.name, names[i], rowN)
				}
				cols[i].Ints = append(cols[i].Ints, ints[i].Int64)
			case table.Bool:
				if !bools[i].Valid {
					return nil, fmt.Errorf("source %q: NULL in column %q at row %d", s.name, names[i], rowN)
				}
				cols[i].Bools = append(cols[i].Bools, bools[i].Bool)
			default:
				if !strs[i].Valid {
					return nil, fmt.Errorf("source %q: NULL in column %q at row %d", s.name, names[i], rowN)
				}
				cols[i].Strings = append(cols[i].Strings, strs[i].String)
			}
		}
		rowN++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source %q: iterate: %w", s.name, err)
	}
	return table.New(cols...)
}

// introspect reads the table layout via PRAGMA table_info.
func (s *SQLite) introspect() error {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.table))
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("source %q: table_info: %w", s.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid      int
			colName  string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &colName, &declType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("source %q: scan table_info: %w", s.name, err)
		}
		s.cols = append(s.cols, sqliteColumn{name: colName, kind: kindFromDecl(declType)})
		s.names = append(s.names, colName)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("source %q: iterate table_info: %w", s.name, err)
	}
	if len(s.cols) == 0 {
		return fmt.Errorf("source %q: table %q does not exist or has no columns", s.name, s.table)
	}
	return nil
}

func (s *SQLite) kindOf(name string) (table.Kind, bool) {
	for _, c := range s.cols {
		if c.name == name {
			return c.kind, true
		}
	}
	return 0, false
}

// kindFromDecl maps a declared SQLite column type to a column kind,
// following SQLite's own affinity rules loosely: BOOL before INT so
// BOOLEAN columns decode as bool, then integer, then floating point,
// everything else as text.
func kindFromDecl(decl string) table.Kind {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "BOOL"):
		return table.Bool
	case strings.Contains(d, "INT"):
		return table.Int
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"), strings.Contains(d, "NUMERIC"), strings.Contains(d, "DECIMAL"):
		return table.Float
	default:
		return table.String
	}
}

// quoteIdent quotes a SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Package store mirrors a dataset into a single SQL table and reads it back.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// rowColumn keeps insertion order so reads return records in file order.
const rowColumn = "_row"

func init() {
	// modernc registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store is a dataset table store backed by SQLite or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// ParseURL maps a database URL to a driver name and DSN. Accepted forms are
// postgres://..., postgresql://..., sqlite://path and bare *.db / *.sqlite paths.
func ParseURL(url string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return "sqlite", url, nil
	}
	return "", "", fmt.Errorf("unsupported database url %q (want postgres:// or sqlite://)", url)
}

// Open connects to the database at url.
func Open(ctx context.Context, url string) (*Store, error) {
	driver, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Driver returns the database driver name.
func (s *Store) Driver() string { return s.driver }

// WriteDataset replaces table with the records of ds inside one transaction.
// Column types follow schema; columns it does not list are stored as text.
// Nulls become SQL NULL.
func (s *Store) WriteDataset(ctx context.Context, table string, ds *dataset.Dataset, schema dataset.Schema) error {
	header := ds.Header()
	kinds := make([]dataset.Kind, len(header))
	defs := []string{quote(rowColumn) + " INTEGER"}
	cols := []string{quote(rowColumn)}
	for j, name := range header {
		if c, ok := schema.Lookup(name); ok {
			kinds[j] = c.Kind
		}
		defs = append(defs, quote(name)+" "+sqlType(kinds[j]))
		cols = append(cols, quote(name))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(cols, ", "), marks))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(cols))
	for i := 0; i < ds.Len(); i++ {
		args[0] = i + 1
		for j := range header {
			v, err := sqlValue(ds, i, j, kinds[j])
			if err != nil {
				return &dataset.SchemaError{Column: header[j], Row: i + 1, Reason: err.Error()}
			}
			args[j+1] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// ReadDataset loads table back as a dataset named after it.
func (s *Store) ReadDataset(ctx context.Context, table string) (*dataset.Dataset, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quote(table), quote(rowColumn)))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	skip := -1
	header := make([]string, 0, len(names))
	for j, n := range names {
		if n == rowColumn {
			skip = j
			continue
		}
		header = append(header, n)
	}

	var records [][]string
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := make([]string, 0, len(header))
		for j, v := range vals {
			if j != skip {
				rec = append(rec, textValue(v))
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataset.New(table, header, records)
}

func sqlType(k dataset.Kind) string {
	switch k {
	case dataset.Integer:
		return "INTEGER"
	case dataset.Numeric:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func sqlValue(ds *dataset.Dataset, i, j int, k dataset.Kind) (interface{}, error) {
	v, ok := ds.Value(i, j)
	if !ok {
		return nil, nil
	}
	switch k {
	case dataset.Integer:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", v)
		}
		return n, nil
	case dataset.Numeric:
		f, ok := ds.Float(i, j)
		if !ok {
			return nil, fmt.Errorf("not numeric: %q", v)
		}
		return f, nil
	}
	return v, nil
}

func textValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

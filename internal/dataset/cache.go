package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	_ "github.com/mattn/go-sqlite3"
)

// ErrCache indicates the local cache could not be read or written.
var ErrCache = errors.New("dataset cache failure")

// CacheFileName is the database file created inside the cache directory.
const CacheFileName = "datasets.sqlite"

const cacheSchemaSQL = `
CREATE TABLE IF NOT EXISTS splits (
	dataset    TEXT NOT NULL,
	subset     TEXT NOT NULL,
	split      TEXT NOT NULL,
	columns    TEXT NOT NULL,
	total      INTEGER NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	PRIMARY KEY (dataset, subset, split)
);
CREATE TABLE IF NOT EXISTS split_rows (
	dataset TEXT NOT NULL,
	subset  TEXT NOT NULL,
	split   TEXT NOT NULL,
	row_idx INTEGER NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (dataset, subset, split, row_idx)
);
`

// Key identifies a cached split. An empty Subset matches any subset.
type Key struct {
	Dataset string
	Subset  string
	Split   string
}

// Cache persists fetched splits in SQLite so repeated runs skip the network.
// Rows are stored as JSON arrays aligned with the cached column schema.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// OpenCache opens (or creates) the cache database at path.
// Use ":memory:" for a throwaway cache.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrCache, path, err)
	}
	// A single connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: initializing %s: %v", ErrCache, path, err)
	}
	return &Cache{db: db, now: time.Now}, nil
}

// initSchema runs the schema statements one by one.
func initSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(cacheSchemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Load returns the cached table for key when it holds enough rows:
// at least limit rows, or the whole split when limit is 0.
// The boolean is false on a cache miss. An empty key.Subset matches the
// alphabetically first cached subset; Loader always passes a resolved one.
func (c *Cache) Load(ctx context.Context, key Key, limit int) (*Table, bool, error) {
	query := `SELECT subset, columns, total FROM splits WHERE dataset = ? AND split = ?`
	args := []any{key.Dataset, key.Split}
	if key.Subset != "" {
		query += ` AND subset = ?`
		args = append(args, key.Subset)
	}
	query += ` ORDER BY subset LIMIT 1`

	var subset, columnsJSON string
	var total int
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&subset, &columnsJSON, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading split: %v", ErrCache, err)
	}

	var columns []Column
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return nil, false, fmt.Errorf("%w: decoding schema: %v", ErrCache, err)
	}

	want := total
	if limit > 0 && limit < total {
		want = limit
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT payload FROM split_rows
		 WHERE dataset = ? AND subset = ? AND split = ? AND row_idx < ?
		 ORDER BY row_idx`,
		key.Dataset, subset, key.Split, want)
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading rows: %v", ErrCache, err)
	}
	defer func() { _ = rows.Close() }()

	table := &Table{
		Dataset: key.Dataset,
		Subset:  subset,
		Split:   key.Split,
		Columns: columns,
		Total:   total,
		Rows:    make([]Row, 0, want),
	}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, false, fmt.Errorf("%w: scanning row: %v", ErrCache, err)
		}
		row, err := decodeCachedRow(columns, payload)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCache, err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: reading rows: %v", ErrCache, err)
	}

	// Rows must be contiguous from 0; a gap means a partial earlier fetch.
	if len(table.Rows) < want {
		return nil, false, nil
	}
	return table, true, nil
}

// decodeCachedRow turns a stored JSON array back into typed cells.
func decodeCachedRow(columns []Column, payload string) (Row, error) {
	cells := gjson.Parse(payload).Array()
	if len(cells) != len(columns) {
		return nil, fmt.Errorf("%w: cached row has %d cells, schema has %d", ErrDecode, len(cells), len(columns))
	}
	row := make(Row, len(columns))
	for i, col := range columns {
		if col.Type == TypeOther {
			// Stored as a JSON string holding the raw value.
			if cells[i].Type == gjson.Null {
				continue
			}
			row[i] = cells[i].String()
			continue
		}
		cell, err := decodeCell(col, cells[i])
		if err != nil {
			return nil, err
		}
		row[i] = cell
	}
	return row, nil
}

// Store writes a table's schema and rows, replacing any cached copy of the
// same split. Rows are stored with their position as row_idx.
func (c *Cache) Store(ctx context.Context, t *Table) error {
	columnsJSON, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("%w: encoding schema: %v", ErrCache, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrCache, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM split_rows WHERE dataset = ? AND subset = ? AND split = ?`,
		t.Dataset, t.Subset, t.Split); err != nil {
		return fmt.Errorf("%w: clearing rows: %v", ErrCache, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO splits (dataset, subset, split, columns, total, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(dataset, subset, split) DO UPDATE SET
		   columns = excluded.columns,
		   total = excluded.total,
		   fetched_at = excluded.fetched_at`,
		t.Dataset, t.Subset, t.Split, string(columnsJSON), t.Total, c.now()); err != nil {
		return fmt.Errorf("%w: writing split: %v", ErrCache, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO split_rows (dataset, subset, split, row_idx, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %v", ErrCache, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range t.Rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("%w: encoding row %d: %v", ErrCache, i, err)
		}
		if _, err := stmt.ExecContext(ctx, t.Dataset, t.Subset, t.Split, i, string(payload)); err != nil {
			return fmt.Errorf("%w: writing row %d: %v", ErrCache, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrCache, err)
	}
	return nil
}

// Has reports whether any rows of the split are cached.
func (c *Cache) Has(ctx context.Context, key Key) (bool, error) {
	query := `SELECT COUNT(*) FROM split_rows WHERE dataset = ? AND split = ?`
	args := []any{key.Dataset, key.Split}
	if key.Subset != "" {
		query += ` AND subset = ?`
		args = append(args, key.Subset)
	}
	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCache, err)
	}
	return n > 0, nil
}

// Clear removes every cached split.
func (c *Cache) Clear(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM split_rows`, `DELETE FROM splits`} {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: clearing: %v", ErrCache, err)
		}
	}
	return nil
}

// Entries lists the cached splits with their stored row counts.
func (c *Cache) Entries(ctx context.Context) ([]CacheEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT s.dataset, s.subset, s.split, s.total,
		        (SELECT COUNT(*) FROM split_rows r
		         WHERE r.dataset = s.dataset AND r.subset = s.subset AND r.split = s.split)
		 FROM splits s ORDER BY s.dataset, s.subset, s.split`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing: %v", ErrCache, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []CacheEntry
	for rows.Next() {
		var e CacheEntry
		if err := rows.Scan(&e.Dataset, &e.Subset, &e.Split, &e.Total, &e.Stored); err != nil {
			return nil, fmt.Errorf("%w: listing: %v", ErrCache, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheEntry summarizes one cached split.
type CacheEntry struct {
	Dataset string
	Subset  string
	Split   string
	Total   int
	Stored  int
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	sqliteDateFormat     = "2006-01-02"
	sqliteDatetimeFormat = "2006-01-02 15:04:05.999999999"
	sqliteZonedFormat    = "2006-01-02 15:04:05.999999999-07:00"
)

// ListTracks implements AppDatabase.
func (db *appdbimpl) ListTracks(ctx context.Context) ([]Track, error) {
	rows, err := db.c.QueryContext(ctx, "SELECT * FROM tracks")
	if err != nil {
		return nil, fmt.Errorf("querying tracks: %w", err)
	}
	return scanTracks(rows)
}

// FindTracks implements AppDatabase.
func (db *appdbimpl) FindTracks(ctx context.Context, filter Filter, value string) ([]Track, error) {
	col, err := filter.Column()
	if err != nil {
		return nil, err
	}

	rows, err := db.c.QueryContext(ctx, "SELECT * FROM tracks WHERE "+col+" = ?", value)
	if err != nil {
		return nil, fmt.Errorf("querying tracks by %s: %w", col, err)
	}
	return scanTracks(rows)
}

// scanTracks reads every row into a Track keyed by column name, then closes rows.
func scanTracks(rows *sql.Rows) ([]Track, error) {
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	cols := make([]string, len(types))
	for i, ct := range types {
		cols[i] = ct.Name()
	}

	tracks := make([]Track, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}

		t := make(Track, len(cols))
		for i, col := range cols {
			t[col] = storedValue(types[i].DatabaseTypeName(), values[i])
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}

// storedValue reverts the conversions go-sqlite3 applies from the declared column type (DATE, DATETIME and
// TIMESTAMP to time.Time, BOOLEAN to bool), so rows come out in SQLite's own representation.
func storedValue(declType string, v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		switch {
		case declType == "DATE" && v.Equal(v.Truncate(24*time.Hour)) && v.Location() == time.UTC:
			return v.Format(sqliteDateFormat)
		case v.Location() == time.UTC:
			return v.Format(sqliteDatetimeFormat)
		default:
			return v.Format(sqliteZonedFormat)
		}
	}
	return v
}

/*
Package database is the middleware between the app database and the code. All data (de)serialization (save/load) from a
persistent database are handled here. Database specific logic should never escape this package.

The schema is not managed here: the SQLite file must already hold a `tracks` table. To use this package connect to the
file (using the filename from config), and then initialize an instance of AppDatabase from the DB connection.

For example, this code adds a parameter in `webapi` executable for the database data source name (add it to the
main.WebAPIConfiguration structure):

	DB struct {
		Filename string `conf:""`
	}

This is an example on how to connect to it:

	// Start Database
	logger.Println("initializing database support")
	db, err := database.Open(cfg.DB.Filename, cfg.DB.ReadOnly)
	if err != nil {
		logger.WithError(err).Error("error opening SQLite DB")
		return fmt.Errorf("opening SQLite: %w", err)
	}
	defer func() {
		logger.Debug("database stopping")
		_ = db.Close()
	}()

Then you can initialize the AppDatabase, publish it through a Handle and pass the Handle to the api package.
*/
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

var ErrUnknownFilter = errors.New("unknown track filter")

// --- 1. MODELS ---

// Track is one row of the tracks table, column name to value. Columns are passed through verbatim.
type Track map[string]any

// Filter selects the column a filtered track query is restricted to.
type Filter int

const (
	FilterArtist Filter = iota + 1
	FilterGenre
	FilterReleaseYear
)

// filterColumns is the allow-list of columns a filter may reference. Only these strings ever reach the query text.
var filterColumns = map[Filter]string{
	FilterArtist:      "artist",
	FilterGenre:       "genre",
	FilterReleaseYear: "release_year",
}

// Column returns the column name for the filter, or ErrUnknownFilter.
func (f Filter) Column() (string, error) {
	col, ok := filterColumns[f]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownFilter, int(f))
	}
	return col, nil
}

func (f Filter) String() string {
	if col, ok := filterColumns[f]; ok {
		return col
	}
	return "unknown"
}

// --- 2. IMPLEMENTATION ---

// appdbimpl is the struct implementing AppDatabase.
type appdbimpl struct {
	c *sql.DB
}

// --- 3. CONTRACT ---

// AppDatabase is the high level interface for the DB
type AppDatabase interface {
	Ping(ctx context.Context) error

	// ListTracks returns every row of the tracks table. An empty table yields an empty, non-nil slice.
	ListTracks(ctx context.Context) ([]Track, error)

	// FindTracks returns the rows whose filter column equals value. The value is always a bound parameter.
	FindTracks(ctx context.Context, filter Filter, value string) ([]Track, error)
}

// --- 4. CONSTRUCTORS ---

// New returns a new instance of AppDatabase based on the SQLite connection `db`.
// `db` is required - an error will be returned if `db` is `nil`.
func New(db *sql.DB) (AppDatabase, error) {
	if db == nil {
		return nil, errors.New("database is required when building a AppDatabase")
	}

	return &appdbimpl{
		c: db,
	}, nil
}

// Open opens the SQLite file at filename and checks it is reachable. With readOnly the file is opened with mode=ro,
// so a missing file is reported as an error instead of an empty database being created.
func Open(filename string, readOnly bool) (*sql.DB, error) {
	dsn := filename
	if readOnly {
		dsn = "file:" + filename + "?" + url.Values{"mode": []string{"ro"}}.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	// sql.Open is lazy: the file is only touched on the first connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", filename, err)
	}
	return db, nil
}

func (db *appdbimpl) Ping(ctx context.Context) error {
	return db.c.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *appdbimpl) Close() error {
	return db.c.Close()
}

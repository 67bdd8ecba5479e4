// Package log is the zerolog-based package logger used by tlstr. Records go
// to a console writer by default, or to an SQLite table after Init so they
// can be read back with GetLastNLogs.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"typelib-go/pkg/appdir"
)

var (
	pkgLogger  = zerolog.Nop()
	level      = zerolog.InfoLevel
	dbWriter   *sqliteWriter
	mu         sync.RWMutex // guards pkgLogger and dbWriter during Init/Close
	timeFormat = time.RFC3339Nano

	// ErrNotInitialized is returned by readers before Init.
	ErrNotInitialized = errors.New("log: logger not initialized, call log.Init() first")
)

// sqliteWriter stores each JSON record as one row.
type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func newSQLiteWriter(dbPath string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", dbPath, err)
	}

	const schema = `
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stmt.Exec(string(p)); err != nil {
		stdlog.Printf("ERROR writing log to SQLite: %v\n", err)
		return 0, err
	}
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing statement: %w", err))
		}
		w.stmt = nil
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing db: %w", err))
		}
		w.db = nil
	}
	return errors.Join(errs...)
}

// SetStd routes records to a human-readable console writer on stderr.
func SetStd() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetOutput routes records to w as JSON unless w is a zerolog.ConsoleWriter.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	pkgLogger = zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// SetLevel sets the minimum level, e.g. "debug" or "warn".
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	mu.Lock()
	level = lvl
	pkgLogger = pkgLogger.Level(lvl)
	mu.Unlock()
	return nil
}

// Init opens (or creates) the SQLite database dbFile and sends records
// there. Relative paths live under appdir.AppDir().
func Init(dbFile string) error {
	if dbFile == "" {
		return fmt.Errorf("logger needs an explicit dbFile")
	}

	mu.Lock()
	defer mu.Unlock()

	if dbWriter != nil {
		return fmt.Errorf("logger already initialized")
	}
	if !filepath.IsAbs(dbFile) {
		if err := appdir.EnsureDir(); err != nil {
			return fmt.Errorf("failed to create app dir: %w", err)
		}
	}
	path := appdir.Path(dbFile)

	writer, err := newSQLiteWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create SQLite writer: %w", err)
	}
	dbWriter = writer

	zerolog.TimeFieldFormat = timeFormat
	pkgLogger = zerolog.New(dbWriter).With().Timestamp().Logger().Level(level)
	return nil
}

// Close detaches the SQLite sink, if any. Later records are dropped until
// SetStd, SetOutput or Init is called again.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if dbWriter == nil {
		return nil
	}
	w := dbWriter
	dbWriter = nil
	pkgLogger = zerolog.Nop()

	if err := w.close(); err != nil {
		return fmt.Errorf("error closing SQLite logger: %w", err)
	}
	return nil
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }
func Fatal() *zerolog.Event { return logger().Fatal() }

// Printf sends an info record. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...interface{}) {
	logger().Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	logger().Fatal().Msgf(format, v...)
}

// Entry is one stored record.
type Entry struct {
	ID         int64
	InsertedAt time.Time
	Data       string // raw JSON
}

func getDB() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if dbWriter == nil {
		return nil, ErrNotInitialized
	}
	return dbWriter.db, nil
}

// parseDBTimestamp tries the formats SQLite commonly hands back.
func parseDBTimestamp(ts string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05.999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetLastNLogs returns the newest n records, oldest first.
func GetLastNLogs(n int) ([]Entry, error) {
	db, err := getDB()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Entry{}, nil
	}

	rows, err := db.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query last %d logs: %w", n, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var insertedAt string
		if err := rows.Scan(&e.ID, &insertedAt, &e.Data); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		e.InsertedAt = parseDBTimestamp(insertedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var _ Backend = (*SQLStore)(nil)

// SQLStore keeps settings in a SQLite table. Writes go through a single
// connection; reads use a small pool.
type SQLStore struct {
	writer *sql.DB
	reader *sql.DB
}

// SQLiteDSN builds the connection string for a database file.
func SQLiteDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
}

// NewSQLStore opens the database at path and applies migrations.
func NewSQLStore(path string) (*SQLStore, error) {
	return OpenSQLStore(SQLiteDSN(path))
}

// OpenSQLStore opens a store from a full DSN, which lets tests use shared
// in-memory databases.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newStoreError("sqlite", "open", "", fmt.Errorf("open writer: %w", err))
	}
	writer.SetMaxOpenConns(1)

	if err := writer.Ping(); err != nil {
		writer.Close()
		return nil, newStoreError("sqlite", "open", "", fmt.Errorf("ping writer: %w", err))
	}

	if err := RunMigrations(writer); err != nil {
		writer.Close()
		return nil, newStoreError("sqlite", "open", "", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, newStoreError("sqlite", "open", "", fmt.Errorf("open reader: %w", err))
	}
	reader.SetMaxOpenConns(4)

	return &SQLStore{writer: writer, reader: reader}, nil
}

// Close closes both connections. Returns the first error encountered.
func (s *SQLStore) Close() error {
	var firstErr error

	if err := s.reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := s.writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}

func (s *SQLStore) Get(ctx context.Context, name string) (string, error) {
	const query = `SELECT value FROM settings WHERE name = ?`

	var value string
	err := s.reader.QueryRowContext(ctx, query, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", newStoreError("sqlite", "get", name, err)
	}
	return value, nil
}

// Set inserts or replaces the value of name.
func (s *SQLStore) Set(ctx context.Context, name, value string) error {
	const query = `
		INSERT INTO settings (name, value)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`

	if _, err := s.writer.ExecContext(ctx, query, name, value); err != nil {
		return newStoreError("sqlite", "set", name, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context, name string) error {
	const query = `DELETE FROM settings WHERE name = ?`

	if _, err := s.writer.ExecContext(ctx, query, name); err != nil {
		return newStoreError("sqlite", "clear", name, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) (map[string]string, error) {
	const query = `SELECT name, value FROM settings ORDER BY name`

	rows, err := s.reader.QueryContext(ctx, query)
	if err != nil {
		return nil, newStoreError("sqlite", "list", "", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, newStoreError("sqlite", "list", "", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, newStoreError("sqlite", "list", "", err)
	}
	return values, nil
}

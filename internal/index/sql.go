package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQL stores entries in the indexed_content table. The same statements run
// on Postgres and SQLite.
type SQL struct {
	DB *sql.DB
}

func NewSQL(db *sql.DB) *SQL { return &SQL{DB: db} }

// OpenPostgres connects with lib/pq and applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := Migrate("", dsn, "up", 0); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return NewSQL(db), nil
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return NewSQL(db), nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS indexed_content (
	url        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

func (s *SQL) Get(ctx context.Context, url string) (string, bool, error) {
	var text string
	err := s.DB.QueryRowContext(ctx, `SELECT content FROM indexed_content WHERE url=$1`, url).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *SQL) Put(ctx context.Context, url, text string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO indexed_content (url, content, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (url) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		url, text, time.Now().UTC())
	return err
}

func (s *SQL) List(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT url FROM indexed_content ORDER BY url`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (s *SQL) Close() error { return s.DB.Close() }

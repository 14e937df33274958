// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished research results in a local SQLite
// database with a full-text index over topics and post content. The
// pipeline itself never persists anything; the CLI saves results here on
// request.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deepdive/pkg/types"
)

const dbFile = "deepdive.db"

// ErrNotFound is returned when no result has the requested ID.
var ErrNotFound = errors.New("result not found")

// DefaultLimit caps List and Search when the caller passes zero.
const DefaultLimit = 20

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// Entry is the listing form of an archived result.
type Entry struct {
	ID          string      `json:"id" yaml:"id"`
	Topic       string      `json:"topic" yaml:"topic"`
	Style       types.Style `json:"style" yaml:"style"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	WordCount   int         `json:"word_count" yaml:"word_count"`
	SourceCount int         `json:"source_count" yaml:"source_count"`
}

// Open opens or creates the archive at dir/deepdive.db.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL,
			style TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			content TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			source_count INTEGER NOT NULL,
			document TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			result_id TEXT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT,
			url TEXT,
			excerpt TEXT,
			PRIMARY KEY (result_id, ordinal)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_generated_at ON results(generated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sources_url ON sources(url)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE results_fts USING fts5(topic, content, content=results, content_rowid=rowid)`,
		`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
			INSERT INTO results_fts(rowid, topic, content) VALUES (new.rowid, new.topic, new.content);
		END`,
		`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, topic, content) VALUES('delete', old.rowid, old.topic, old.content);
		END`,
		`CREATE TRIGGER results_au AFTER UPDATE ON results BEGIN
			INSERT INTO results_fts(results_fts, rowid, topic, content) VALUES('delete', old.rowid, old.topic, old.content);
			INSERT INTO results_fts(rowid, topic, content) VALUES (new.rowid, new.topic, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Save stores result, replacing any earlier result with the same ID.
func (s *Store) Save(ctx context.Context, result *types.ResearchResult) error {
	if result == nil || result.ID == "" {
		return fmt.Errorf("saving result: missing id")
	}
	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result %s: %w", result.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, topic, style, generated_at, content, word_count, source_count, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			topic=excluded.topic, style=excluded.style, generated_at=excluded.generated_at,
			content=excluded.content, word_count=excluded.word_count,
			source_count=excluded.source_count, document=excluded.document`,
		result.ID, result.Topic, string(result.Style),
		result.GeneratedAt.UTC().Format(time.RFC3339Nano), result.Content,
		result.Metrics.WordCount, result.Metrics.SourceCount, string(doc),
	)
	if err != nil {
		return fmt.Errorf("upserting result %s: %w", result.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE result_id = ?`, result.ID); err != nil {
		return fmt.Errorf("deleting old sources: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sources (result_id, ordinal, kind, title, url, excerpt) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, src := range result.Sources {
		if _, err := stmt.ExecContext(ctx,
			result.ID, src.Ordinal, string(src.Kind), src.Title, src.URL, src.Excerpt,
		); err != nil {
			return fmt.Errorf("inserting source %d: %w", src.Ordinal, err)
		}
	}

	return tx.Commit()
}

// Get loads the full result with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*types.ResearchResult, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM results WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying result %s: %w", id, err)
	}

	var result types.ResearchResult
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return nil, fmt.Errorf("decoding result %s: %w", id, err)
	}
	return &result, nil
}

// List returns the most recent results first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.entries(ctx,
		`SELECT id, topic, style, generated_at, word_count, source_count
		 FROM results ORDER BY generated_at DESC, rowid DESC LIMIT ?`,
		orDefault(limit))
}

// Search runs an FTS5 query over topics and content, best match first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if query == "" {
		return s.List(ctx, limit)
	}
	return s.entries(ctx,
		`SELECT r.id, r.topic, r.style, r.generated_at, r.word_count, r.source_count
		 FROM results_fts
		 JOIN results r ON r.rowid = results_fts.rowid
		 WHERE results_fts MATCH ?
		 ORDER BY results_fts.rank LIMIT ?`,
		query, orDefault(limit))
}

// BySourceURL lists the results that cite url.
func (s *Store) BySourceURL(ctx context.Context, url string, limit int) ([]Entry, error) {
	return s.entries(ctx,
		`SELECT DISTINCT r.id, r.topic, r.style, r.generated_at, r.word_count, r.source_count
		 FROM sources src
		 JOIN results r ON r.id = src.result_id
		 WHERE src.url = ?
		 ORDER BY r.generated_at DESC LIMIT ?`,
		url, orDefault(limit))
}

func (s *Store) entries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e     Entry
			style string
			when  string
		)
		if err := rows.Scan(&e.ID, &e.Topic, &style, &when, &e.WordCount, &e.SourceCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Style = types.Style(style)
		if t, err := time.Parse(time.RFC3339Nano, when); err == nil {
			e.GeneratedAt = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

func orDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

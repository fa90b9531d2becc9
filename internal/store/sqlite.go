// Package store persists outline and analysis results in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/persona"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("not found")

// Store is the persistence surface used by the server and pipeline.
type Store interface {
	PutOutline(ctx context.Context, hash, filename string, res *outline.Result) error
	GetOutline(ctx context.Context, hash string) (*OutlineRecord, error)
	ListOutlines(ctx context.Context) ([]OutlineInfo, error)
	DeleteOutline(ctx context.Context, hash string) error
	PutAnalysis(ctx context.Context, jobID string, res *persona.AnalysisResult) error
	GetAnalysis(ctx context.Context, jobID string) (*persona.AnalysisResult, error)
	Close() error
}

// OutlineRecord is a stored outline keyed by the source's content hash.
type OutlineRecord struct {
	Hash      string         `json:"hash"`
	Filename  string         `json:"filename"`
	Result    outline.Result `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}

// OutlineInfo summarizes a stored outline for listings.
type OutlineInfo struct {
	Hash      string    `json:"hash"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Headings  int       `json:"headings"`
	CreatedAt time.Time `json:"created_at"`
}

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outlines (
		hash TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		title TEXT,
		heading_count INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS analyses (
		job_id TEXT PRIMARY KEY,
		persona TEXT,
		job TEXT,
		body TEXT NOT NULL,
		candidates TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_outlines_created ON outlines(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// PutOutline stores res under hash, replacing any earlier row.
func (s *SQLiteStore) PutOutline(ctx context.Context, hash, filename string, res *outline.Result) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO outlines (hash, filename, title, heading_count, body)
		VALUES (?, ?, ?, ?, ?)
	`, hash, filename, res.Title, len(res.Outline), string(body))
	if err != nil {
		return fmt.Errorf("insert outline: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetOutline(ctx context.Context, hash string) (*OutlineRecord, error) {
	rec := OutlineRecord{Hash: hash}
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT filename, body, created_at FROM outlines WHERE hash = ?
	`, hash).Scan(&rec.Filename, &body, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outline %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query outline: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal outline: %w", err)
	}
	return &rec, nil
}

// ListOutlines returns stored outlines, newest first.
func (s *SQLiteStore) ListOutlines(ctx context.Context) ([]OutlineInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, filename, title, heading_count, created_at
		FROM outlines
		ORDER BY created_at DESC, hash
	`)
	if err != nil {
		return nil, fmt.Errorf("query outlines: %w", err)
	}
	defer rows.Close()

	out := []OutlineInfo{}
	for rows.Next() {
		var info OutlineInfo
		if err := rows.Scan(&info.Hash, &info.Filename, &info.Title, &info.Headings, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outline: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outlines: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteOutline(ctx context.Context, hash string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM outlines WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("delete outline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("outline %s: %w", hash, ErrNotFound)
	}
	return nil
}

// PutAnalysis stores res and its full candidate list under jobID.
func (s *SQLiteStore) PutAnalysis(ctx context.Context, jobID string, res *persona.AnalysisResult) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	candidates, err := json.Marshal(res.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses (job_id, persona, job, body, candidates)
		VALUES (?, ?, ?, ?, ?)
	`, jobID, res.Metadata.Persona, res.Metadata.JobToBeDone, string(body), string(candidates))
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis loads a stored analysis with its candidates restored.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, jobID string) (*persona.AnalysisResult, error) {
	var body string
	var candidates sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT body, candidates FROM analyses WHERE job_id = ?
	`, jobID).Scan(&body, &candidates)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", jobID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis: %w", err)
	}

	var res persona.AnalysisResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	if candidates.Valid && candidates.String != "" {
		if err := json.Unmarshal([]byte(candidates.String), &res.Candidates); err != nil {
			return nil, fmt.Errorf("unmarshal candidates: %w", err)
		}
	}
	return &res, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

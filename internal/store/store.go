package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/docprep/internal/chunker"
	"github.com/dgallion1/docprep/internal/extract"
	"github.com/dgallion1/docprep/internal/scanner"
)

// Schema for the preprocessing tables. Applied by Init.
const Schema = `
CREATE TABLE IF NOT EXISTS file_metadata (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL UNIQUE,
	file_name TEXT NOT NULL,
	file_extension TEXT,
	parent_directory TEXT,
	relative_path TEXT,
	is_directory INTEGER NOT NULL DEFAULT 0,
	file_size INTEGER,
	file_hash TEXT,
	modified_at INTEGER,
	depth_level INTEGER,
	scan_timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_file_metadata_hash ON file_metadata(file_hash) WHERE file_hash != '';
CREATE INDEX IF NOT EXISTS idx_file_metadata_ext ON file_metadata(file_extension);

CREATE TABLE IF NOT EXISTS document_content (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_metadata_id INTEGER NOT NULL REFERENCES file_metadata(id) ON DELETE CASCADE,
	content_text TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT 'markdown',
	extraction_method TEXT,
	extraction_timestamp INTEGER NOT NULL,
	content_length INTEGER,
	language TEXT,
	encoding TEXT NOT NULL DEFAULT 'utf-8',
	title TEXT
);
CREATE INDEX IF NOT EXISTS idx_document_content_file ON document_content(file_metadata_id);

CREATE TABLE IF NOT EXISTS content_chunks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document_content_id INTEGER NOT NULL REFERENCES document_content(id) ON DELETE CASCADE,
	file_metadata_id INTEGER NOT NULL REFERENCES file_metadata(id) ON DELETE CASCADE,
	chunk_index INTEGER NOT NULL,
	chunk_text TEXT NOT NULL,
	chunk_size INTEGER NOT NULL,
	chunk_overlap INTEGER NOT NULL DEFAULT 0,
	start_position INTEGER NOT NULL,
	end_position INTEGER NOT NULL,
	header_context TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_content_chunks_doc ON content_chunks(document_content_id);

CREATE TABLE IF NOT EXISTS scan_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	root_directory TEXT,
	start_time INTEGER NOT NULL,
	end_time INTEGER,
	status TEXT NOT NULL DEFAULT 'running',
	total_files INTEGER DEFAULT 0,
	total_directories INTEGER DEFAULT 0,
	total_size INTEGER DEFAULT 0,
	errors_count INTEGER DEFAULT 0,
	content_files_processed INTEGER DEFAULT 0,
	chunks_created INTEGER DEFAULT 0
);
`

// tables in drop order (children first).
var tables = []string{"content_chunks", "document_content", "scan_sessions", "file_metadata"}

// Store persists scan metadata, content records and chunks to SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite handles one writer; serialize through a single conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Init creates the schema if it does not exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// Drop removes every preprocessing table. Used by the maintenance CLI.
func (s *Store) Drop() error {
	for _, t := range tables {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + t); err != nil {
			return fmt.Errorf("drop %s: %w", t, err)
		}
	}
	return nil
}

// Clear deletes all rows but keeps the schema.
func (s *Store) Clear(ctx context.Context) error {
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertFileMetadata inserts or refreshes a file_metadata row keyed by path
// and returns its id.
func (s *Store) UpsertFileMetadata(ctx context.Context, meta scanner.FileMetadata) (int64, error) {
	isDir := 0
	if meta.IsDirectory {
		isDir = 1
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO file_metadata
			(file_path, file_name, file_extension, parent_directory, relative_path,
			 is_directory, file_size, file_hash, modified_at, depth_level, scan_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			file_size = excluded.file_size,
			file_hash = excluded.file_hash,
			modified_at = excluded.modified_at,
			scan_timestamp = excluded.scan_timestamp
		RETURNING id`,
		meta.Path, meta.Name, meta.Extension, meta.ParentDir, meta.RelPath,
		isDir, meta.Size, meta.Hash, meta.ModTime.Unix(), meta.Depth, time.Now().Unix(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert file metadata %s: %w", meta.Path, err)
	}
	return id, nil
}

// SaveDocument stores one content record and its chunk sequence in a single
// transaction, replacing any earlier extraction of the same file.
func (s *Store) SaveDocument(ctx context.Context, fileID int64, rec *extract.ContentRecord, chunks []chunker.Chunk) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_content WHERE file_metadata_id = ?`, fileID); err != nil {
		return 0, fmt.Errorf("delete stale content: %w", err)
	}

	var docID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO document_content
			(file_metadata_id, content_text, content_type, extraction_method,
			 extraction_timestamp, content_length, language, encoding, title)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		fileID, rec.Text, rec.ContentType, rec.ExtractionMethod,
		time.Now().Unix(), rec.ContentLength, rec.Language, rec.Encoding, rec.Title,
	).Scan(&docID)
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO content_chunks
			(document_content_id, file_metadata_id, chunk_index, chunk_text,
			 chunk_size, chunk_overlap, start_position, end_position, header_context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, c := range chunks {
		_, err := stmt.ExecContext(ctx,
			docID, fileID, c.Index, c.Content,
			len([]rune(c.Content)), c.OverlapWithPrev, c.CharStart, c.CharEnd,
			strings.Join(c.Context, " > "), now)
		if err != nil {
			return 0, fmt.Errorf("insert chunk %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return docID, nil
}

// SessionSummary closes out one scan_sessions row.
type SessionSummary struct {
	Status                string
	TotalFiles            int
	TotalDirectories      int
	TotalSize             int64
	ErrorsCount           int
	ContentFilesProcessed int
	ChunksCreated         int
}

// StartSession records the beginning of a batch run.
func (s *Store) StartSession(ctx context.Context, sessionID, root string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_sessions (session_id, root_directory, start_time, status)
		VALUES (?, ?, ?, 'running')`,
		sessionID, root, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("start session %s: %w", sessionID, err)
	}
	return nil
}

// FinishSession records the end of a batch run and its aggregate counts.
func (s *Store) FinishSession(ctx context.Context, sessionID string, sum SessionSummary) error {
	status := sum.Status
	if status == "" {
		status = "completed"
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE scan_sessions SET
			end_time = ?, status = ?,
			total_files = ?, total_directories = ?, total_size = ?,
			errors_count = ?, content_files_processed = ?, chunks_created = ?
		WHERE session_id = ?`,
		time.Now().Unix(), status,
		sum.TotalFiles, sum.TotalDirectories, sum.TotalSize,
		sum.ErrorsCount, sum.ContentFilesProcessed, sum.ChunksCreated,
		sessionID)
	if err != nil {
		return fmt.Errorf("finish session %s: %w", sessionID, err)
	}
	return nil
}

// DocumentInfo is one row of the documents listing.
type DocumentInfo struct {
	Path          string `json:"file_path"`
	Title         string `json:"title"`
	Language      string `json:"language"`
	ContentLength int    `json:"content_length"`
	ChunkCount    int    `json:"chunk_count"`
	ExtractedAt   int64  `json:"extracted_at"`
}

// ListDocuments returns the most recently extracted documents.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]DocumentInfo, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT fm.file_path, COALESCE(dc.title, ''), COALESCE(dc.language, ''),
		       COALESCE(dc.content_length, 0), COUNT(cc.id), dc.extraction_timestamp
		FROM document_content dc
		JOIN file_metadata fm ON fm.id = dc.file_metadata_id
		LEFT JOIN content_chunks cc ON cc.document_content_id = dc.id
		GROUP BY dc.id
		ORDER BY dc.extraction_timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.Path, &d.Title, &d.Language, &d.ContentLength, &d.ChunkCount, &d.ExtractedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ChunkRow is one stored chunk, used by tests and the API.
type ChunkRow struct {
	Index         int    `json:"chunk_index"`
	Text          string `json:"chunk_text"`
	Size          int    `json:"chunk_size"`
	Overlap       int    `json:"chunk_overlap"`
	StartPosition int    `json:"start_position"`
	EndPosition   int    `json:"end_position"`
	HeaderContext string `json:"header_context"`
}

// ChunksForDocument returns the ordered chunk sequence of a content row.
func (s *Store) ChunksForDocument(ctx context.Context, docID int64) ([]ChunkRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_index, chunk_text, chunk_size, chunk_overlap,
		       start_position, end_position, COALESCE(header_context, '')
		FROM content_chunks
		WHERE document_content_id = ?
		ORDER BY chunk_index`, docID)
	if err != nil {
		return nil, fmt.Errorf("chunks for document %d: %w", docID, err)
	}
	defer rows.Close()

	var chunks []ChunkRow
	for rows.Next() {
		var c ChunkRow
		if err := rows.Scan(&c.Index, &c.Text, &c.Size, &c.Overlap, &c.StartPosition, &c.EndPosition, &c.HeaderContext); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

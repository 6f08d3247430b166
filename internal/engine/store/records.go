// Package store persists collected comment records (SQLite) and built
// networks (PostgreSQL with Apache AGE).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_ytnet/internal/engine/youtube"
)

// ErrCollectionNotFound is returned by LoadCollection for an unknown id.
var ErrCollectionNotFound = errors.New("collection not found")

// CollectionInfo describes one stored collection run.
type CollectionInfo struct {
	ID        int64    `json:"id"`
	RunID     string   `json:"run_id,omitempty"`
	VideoIDs  []string `json:"video_ids"`
	Skipped   []string `json:"skipped,omitempty"`
	Records   int      `json:"records"`
	Comments  int      `json:"comments"`
	Replies   int      `json:"replies"`
	CreatedAt string   `json:"created_at"`
}

// RecordStore keeps collected Dataframes in a local SQLite database.
type RecordStore struct {
	db *sql.DB
}

// OpenRecordStore opens (or creates) the SQLite database at path.
func OpenRecordStore(path string) (*RecordStore, error) {
	if path == "" {
		return nil, errors.New("record store: path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("record store: mkdir %s: %w", filepath.Dir(path), err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("record store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initRecordSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("record store: init schema: %w", err)
	}
	return &RecordStore{db: db}, nil
}

// Close closes the database.
func (s *RecordStore) Close() error { return s.db.Close() }

func initRecordSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS collections (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL DEFAULT '',
		video_ids  TEXT NOT NULL,
		skipped    TEXT NOT NULL DEFAULT '',
		records    INTEGER NOT NULL,
		comments   INTEGER NOT NULL,
		replies    INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comments (
		collection_id     INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		seq               INTEGER NOT NULL,
		comment_id        TEXT NOT NULL,
		parent_id         TEXT NOT NULL,
		source_id         TEXT NOT NULL,
		author            TEXT NOT NULL,
		author_channel_id TEXT,
		text              TEXT,
		reply_count       INTEGER NOT NULL DEFAULT 0,
		like_count        INTEGER NOT NULL DEFAULT 0,
		publish_time      TEXT,
		update_time       TEXT,
		attribution       TEXT NOT NULL,
		PRIMARY KEY (collection_id, seq)
	);
	CREATE INDEX IF NOT EXISTS comments_source ON comments(collection_id, source_id);`)
	return err
}

// SaveCollection stores a Dataframe and returns its collection id.
func (s *RecordStore) SaveCollection(ctx context.Context, df *youtube.Dataframe) (int64, error) {
	if df == nil {
		return 0, errors.New("record store: nil dataframe")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	comments, replies := df.Counts()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO collections (run_id, video_ids, skipped, records, comments, replies, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		df.RunID, strings.Join(df.VideoIDs(), ","), strings.Join(df.Skipped, ","),
		df.Len(), comments, replies, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("record store: insert collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record store: collection id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO comments
		(collection_id, seq, comment_id, parent_id, source_id, author, author_channel_id, text,
		 reply_count, like_count, publish_time, update_time, attribution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("record store: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range df.Records {
		if _, err := stmt.ExecContext(ctx, id, i, r.CommentID, r.ParentID, r.SourceID, r.Author,
			r.AuthorChannelID, r.Text, r.ReplyCount, r.LikeCount, r.PublishTime, r.UpdateTime, r.Attribution); err != nil {
			return 0, fmt.Errorf("record store: insert comment %s: %w", r.CommentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record store: commit: %w", err)
	}
	return id, nil
}

// ListCollections returns stored collections, newest first.
func (s *RecordStore) ListCollections(ctx context.Context, limit int) ([]CollectionInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, video_ids, skipped, records, comments, replies, created_at
		FROM collections ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("record store: list: %w", err)
	}
	defer rows.Close()

	var out []CollectionInfo
	for rows.Next() {
		var c CollectionInfo
		var ids, skipped string
		if err := rows.Scan(&c.ID, &c.RunID, &ids, &skipped, &c.Records, &c.Comments, &c.Replies, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("record store: scan: %w", err)
		}
		c.VideoIDs = splitIDs(ids)
		c.Skipped = splitIDs(skipped)
		out = append(out, c)
	}
	return out, rows.Err()
}

// LoadCollection reads a stored collection back in its original record order.
func (s *RecordStore) LoadCollection(ctx context.Context, id int64) (*youtube.Dataframe, error) {
	var runID, skipped string
	err := s.db.QueryRowContext(ctx, `SELECT run_id, skipped FROM collections WHERE id = ?`, id).Scan(&runID, &skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrCollectionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("record store: load %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT comment_id, parent_id, source_id, author,
		COALESCE(author_channel_id, ''), COALESCE(text, ''), reply_count, like_count,
		COALESCE(publish_time, ''), COALESCE(update_time, ''), attribution
		FROM comments WHERE collection_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("record store: load %d: %w", id, err)
	}
	defer rows.Close()

	var records []youtube.CommentRecord
	for rows.Next() {
		var r youtube.CommentRecord
		if err := rows.Scan(&r.CommentID, &r.ParentID, &r.SourceID, &r.Author, &r.AuthorChannelID,
			&r.Text, &r.ReplyCount, &r.LikeCount, &r.PublishTime, &r.UpdateTime, &r.Attribution); err != nil {
			return nil, fmt.Errorf("record store: scan: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	df := youtube.NewDataframe(records)
	df.RunID = runID
	df.Skipped = splitIDs(skipped)
	return df, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

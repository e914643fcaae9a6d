package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
)

// Record is one stored document.
type Record struct {
	ID          string
	Source      string
	Version     string
	Digest      string
	NodeCount   int
	GlobalCount int
	CreatedAt   time.Time
	Document    schema.Document
}

// Store reads and writes document history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Digest returns the hex SHA-256 of the document's compact JSON encoding.
func Digest(doc schema.Document) (string, []byte, error) {
	body, err := doc.JSON(false)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to encode document")
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), body, nil
}

// Save stores doc under source and returns the new record.
func (s *Store) Save(ctx context.Context, source string, doc schema.Document) (Record, error) {
	digest, body, err := Digest(doc)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:          uuid.NewString(),
		Source:      source,
		Version:     doc.Version,
		Digest:      digest,
		NodeCount:   len(doc.Nodes),
		GlobalCount: len(doc.Globals),
		CreatedAt:   s.now().UTC(),
		Document:    doc,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source, version, digest, node_count, global_count, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.Version, rec.Digest, rec.NodeCount, rec.GlobalCount, string(body), rec.CreatedAt,
	)
	if err != nil {
		return Record{}, errors.Wrapf(err, "failed to save document for %s", source)
	}
	logger.LoggerFromContext(ctx).Infow("Document saved",
		logger.FieldRecordID, rec.ID,
		logger.FieldSource, source,
		"digest", digest)
	return rec, nil
}

// SaveIfChanged stores doc unless the latest record for source has the same digest.
// The boolean reports whether a new record was written.
func (s *Store) SaveIfChanged(ctx context.Context, source string, doc schema.Document) (Record, bool, error) {
	digest, _, err := Digest(doc)
	if err != nil {
		return Record{}, false, err
	}
	latest, err := s.Latest(ctx, source)
	switch {
	case err == nil && latest.Digest == digest:
		logger.LoggerFromContext(ctx).Debugw("Document unchanged",
			logger.FieldRecordID, latest.ID,
			logger.FieldSource, source)
		return latest, false, nil
	case err != nil && !errors.IsNotFoundError(err):
		return Record{}, false, err
	}
	rec, err := s.Save(ctx, source, doc)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

const selectColumns = `SELECT id, source, version, digest, node_count, global_count, body, created_at FROM documents`

// Latest returns the most recent record for source.
func (s *Store) Latest(ctx context.Context, source string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+`
		WHERE source = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`, source)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NewNotFoundError("no stored document for %s", source)
	}
	if err != nil {
		return Record{}, errors.Wrapf(err, "failed to load latest document for %s", source)
	}
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NewNotFoundError("no stored document with id %s", id)
	}
	if err != nil {
		return Record{}, errors.Wrapf(err, "failed to load document %s", id)
	}
	return rec, nil
}

// List returns up to limit records for source, newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, source string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE source = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, source, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list documents for %s", source)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate documents")
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var body string
	if err := row.Scan(&rec.ID, &rec.Source, &rec.Version, &rec.Digest, &rec.NodeCount, &rec.GlobalCount, &body, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	doc, err := schema.ParseDocument([]byte(body), schema.FormatJSON)
	if err != nil {
		return Record{}, errors.Wrapf(err, "stored document %s is corrupt", rec.ID)
	}
	rec.Document = doc
	return rec, nil
}

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var _ DocumentStore = (*SQLDocumentStore)(nil)

// SQLDocumentStore keeps documents as JSON rows of the ledger_documents table.
type SQLDocumentStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLDocumentStore creates a document store on top of an initialized database.
func NewSQLDocumentStore(db *sql.DB) *SQLDocumentStore {
	return &SQLDocumentStore{
		db:  db,
		now: time.Now,
	}
}

// ReadDocuments returns every document of a collection ordered by id. A row whose JSON cannot
// be decoded is returned with empty fields so the caller decides what to keep.
func (s *SQLDocumentStore) ReadDocuments(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields, updated_at
		FROM ledger_documents
		WHERE collection = ?
		ORDER BY id
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			doc       Document
			raw       sql.NullString
			updatedAt sql.NullInt64
		)
		if err := rows.Scan(&doc.ID, &raw, &updatedAt); err != nil {
			return nil, err
		}
		doc.Fields = map[string]any{}
		if raw.Valid && raw.String != "" {
			if err := json.Unmarshal([]byte(raw.String), &doc.Fields); err != nil {
				log.Warn("Failed to decode ledger document", "error", err, "collection", collection, "id", doc.ID)
				doc.Fields = map[string]any{}
			}
		}
		if updatedAt.Valid {
			doc.UpdatedAt = time.UnixMilli(updatedAt.Int64).UTC()
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// BulkWrite upserts docs in one transaction.
func (s *SQLDocumentStore) BulkWrite(ctx context.Context, collection string, docs []Document) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.insertLocked(ctx, tx, collection, docs)
	})
}

// BulkDelete removes the given ids in one transaction.
func (s *SQLDocumentStore) BulkDelete(ctx context.Context, collection string, ids []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "DELETE FROM ledger_documents WHERE collection = ? AND id = ?")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, collection, id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
		}
		return nil
	})
}

// ReplaceAll drops the whole collection and writes docs in one transaction, so readers see
// either the previous set or the new one.
func (s *SQLDocumentStore) ReplaceAll(ctx context.Context, collection string, docs []Document) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM ledger_documents WHERE collection = ?", collection); err != nil {
			return fmt.Errorf("clear collection: %w", err)
		}
		return s.insertLocked(ctx, tx, collection, docs)
	})
}

// DeleteCollection removes the whole collection with a single statement.
func (s *SQLDocumentStore) DeleteCollection(ctx context.Context, collection string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ledger_documents WHERE collection = ?", collection)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLDocumentStore) insertLocked(ctx context.Context, tx *sql.Tx, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_documents (collection, id, fields, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			fields = excluded.fields,
			updated_at = excluded.updated_at;
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	updatedAt := s.now().UnixMilli()
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document without id in %s", collection)
		}
		fields, err := json.Marshal(doc.Fields)
		if err != nil {
			return fmt.Errorf("encode %s: %w", doc.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, collection, doc.ID, string(fields), updatedAt); err != nil {
			return fmt.Errorf("write %s: %w", doc.ID, err)
		}
	}
	return nil
}

func (s *SQLDocumentStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("Failed to roll back ledger transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

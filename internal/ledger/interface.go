package ledger

import "context"

// DocumentStore is the document store boundary of the results ledger. Every bulk call is a
// single atomic operation: it applies completely or not at all.
type DocumentStore interface {
	ReadDocuments(ctx context.Context, collection string) ([]Document, error)
	BulkWrite(ctx context.Context, collection string, docs []Document) error
	BulkDelete(ctx context.Context, collection string, ids []string) error
	// ReplaceAll removes every document of the collection and writes docs in one transaction.
	ReplaceAll(ctx context.Context, collection string, docs []Document) error
	// DeleteCollection removes every document of the collection in one statement and reports
	// how many were removed.
	DeleteCollection(ctx context.Context, collection string) (int, error)
}

package ledger

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the DocumentStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	ReadDocumentsFunc func(ctx context.Context, collection string) ([]Document, error)
	BulkWriteFunc     func(ctx context.Context, collection string, docs []Document) error
	BulkDeleteFunc    func(ctx context.Context, collection string, ids []string) error
	ReplaceAllFunc    func(ctx context.Context, collection string, docs []Document) error

	// DeleteCollectionFunc defaults to reporting as many deletions as ReadDocumentsFunc returns.
	DeleteCollectionFunc func(ctx context.Context, collection string) (int, error)

	ReadDocumentsCalls []string
	BulkWriteCalls     []WriteCall
	BulkDeleteCalls    []struct {
		Collection string
		IDs        []string
	}
	ReplaceAllCalls       []WriteCall
	DeleteCollectionCalls []string
}

// WriteCall holds the arguments of a write.
type WriteCall struct {
	Collection string
	Docs       []Document
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) ReadDocuments(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadDocumentsCalls = append(m.ReadDocumentsCalls, collection)
	if m.ReadDocumentsFunc != nil {
		return m.ReadDocumentsFunc(ctx, collection)
	}
	return nil, nil
}

func (m *MockStore) BulkWrite(ctx context.Context, collection string, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BulkWriteCalls = append(m.BulkWriteCalls, WriteCall{Collection: collection, Docs: docs})
	if m.BulkWriteFunc != nil {
		return m.BulkWriteFunc(ctx, collection, docs)
	}
	return nil
}

func (m *MockStore) BulkDelete(ctx context.Context, collection string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BulkDeleteCalls = append(m.BulkDeleteCalls, struct {
		Collection string
		IDs        []string
	}{collection, ids})
	if m.BulkDeleteFunc != nil {
		return m.BulkDeleteFunc(ctx, collection, ids)
	}
	return nil
}

func (m *MockStore) ReplaceAll(ctx context.Context, collection string, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceAllCalls = append(m.ReplaceAllCalls, WriteCall{Collection: collection, Docs: docs})
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, collection, docs)
	}
	return nil
}

func (m *MockStore) DeleteCollection(ctx context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCollectionCalls = append(m.DeleteCollectionCalls, collection)
	if m.DeleteCollectionFunc != nil {
		return m.DeleteCollectionFunc(ctx, collection)
	}
	if m.ReadDocumentsFunc != nil {
		docs, err := m.ReadDocumentsFunc(ctx, collection)
		return len(docs), err
	}
	return 0, nil
}

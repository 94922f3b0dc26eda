package mocks

import (
	"context"
	"sync"

	"github.com/quickblog-api/internal/blobstore"
)

// MockBlobStore is a map-backed BlobStore with injectable failures
type MockBlobStore struct {
	mu    sync.Mutex
	Blobs map[string][]byte

	KeysError   error
	GetError    error
	SetError    error
	DeleteError error
	// GetErrors fails Get for individual keys
	GetErrors map[string]error

	GetCalls int
	SetCalls int
}

// Verify interface compliance
var _ blobstore.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Blobs:     make(map[string][]byte),
		GetErrors: make(map[string]error),
	}
}

func (m *MockBlobStore) Keys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.KeysError != nil {
		return nil, m.KeysError
	}
	keys := make([]string, 0, len(m.Blobs))
	for k := range m.Blobs {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetError != nil {
		return nil, m.GetError
	}
	if err, ok := m.GetErrors[key]; ok {
		return nil, err
	}
	v, ok := m.Blobs[key]
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return v, nil
}

func (m *MockBlobStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Blobs[key]; !ok {
		return blobstore.ErrNotFound
	}
	delete(m.Blobs, key)
	return nil
}

package blobstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errMissingClient is returned when no Firestore client was configured
var errMissingClient = errors.New("blobstore: firestore client is missing")

// FirestoreStore keeps each blob as one document in a collection named after the store
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

var _ BlobStore = (*FirestoreStore)(nil)

// NewFirestoreStore creates a store over client.Collection(store)
func NewFirestoreStore(client *firestore.Client, store string) (*FirestoreStore, error) {
	if client == nil {
		return nil, errMissingClient
	}
	return &FirestoreStore{client: client, collection: store}, nil
}

func (s *FirestoreStore) Keys(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(s.collection).DocumentRefs(ctx)

	keys := make([]string, 0)
	for {
		ref, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate blob keys: %w", err)
		}
		keys = append(keys, ref.ID)
	}
	return keys, nil
}

func (s *FirestoreStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob document: %w", err)
	}

	var payload struct {
		Value []byte `firestore:"value"`
	}
	if err := doc.DataTo(&payload); err != nil {
		return nil, fmt.Errorf("decode blob document: %w", err)
	}
	return payload.Value, nil
}

func (s *FirestoreStore) Set(ctx context.Context, key string, value []byte) error {
	data := map[string]any{
		"value":      value,
		"updated_at": firestore.ServerTimestamp,
	}
	if _, err := s.client.Collection(s.collection).Doc(key).Set(ctx, data); err != nil {
		return fmt.Errorf("set blob document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.Collection(s.collection).Doc(key).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete blob document: %w", err)
	}
	return nil
}

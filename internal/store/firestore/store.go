// Package firestore implements the document half of the SessionStore
// contract on Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medico-health/portal-api/internal/store"
)

type Store struct {
	client *firestore.Client
}

// NewStore connects to the Firestore database of the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

var _ store.DocumentStore = (*Store)(nil)

func (s *Store) GetDocument(ctx context.Context, collection, key string) (store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("reading %s/%s: %w", collection, key, err)
	}
	return store.Document(snap.Data()), nil
}

func (s *Store) SetDocument(ctx context.Context, collection, key string, doc store.Document) error {
	if _, err := s.client.Collection(collection).Doc(key).Set(ctx, map[string]any(doc)); err != nil {
		return fmt.Errorf("writing %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, key string, fields store.Document) error {
	ref := s.client.Collection(collection).Doc(key)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrDocumentNotFound
		}
		return fmt.Errorf("reading %s/%s: %w", collection, key, err)
	}

	if _, err := ref.Set(ctx, map[string]any(fields), firestore.MergeAll); err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

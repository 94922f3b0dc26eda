package database

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/quickblog-api/internal/config"
	"google.golang.org/api/option"
)

var errFirestoreProjectIDBlank = errors.New("firestore: GOOGLE_CLOUD_PROJECT is not set")

// NewFirestore creates a Firestore client. Credentials are read from the
// configured file unless an emulator is in use.
func NewFirestore(ctx context.Context, cfg *config.FirestoreConfig) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, errFirestoreProjectIDBlank
	}

	opts := []option.ClientOption{}

	// the emulator needs no credentials
	if cfg.CredentialsFile != "" && cfg.EmulatorHost == "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}
	return client, nil
}

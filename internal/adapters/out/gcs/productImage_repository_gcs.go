// internal/adapters/out/gcs/productImage_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// DefaultSignedURLTTL bounds how long a resolved product image URL stays
// valid.
const DefaultSignedURLTTL = 15 * time.Minute

// ProductImageRepositoryGCS resolves product image object paths stored on
// catalog documents into time-limited signed URLs.
// Satisfies query.ImageResolver.
type ProductImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	TTL    time.Duration
}

func NewProductImageRepositoryGCS(client *storage.Client, bucket string) *ProductImageRepositoryGCS {
	return &ProductImageRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		TTL:    DefaultSignedURLTTL,
	}
}

// ResolveURL signs a GET URL for the object. Paths that are already https
// URLs pass through unchanged.
func (r *ProductImageRepositoryGCS) ResolveURL(ctx context.Context, objectPath string) (string, error) {
	_ = ctx // BucketHandle.SignedURL signs locally via IAM credentials

	if r == nil || r.Client == nil {
		return "", errors.New("gcs client is nil")
	}

	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return "", errors.New("object path is empty")
	}
	if strings.HasPrefix(objectPath, "http://") || strings.HasPrefix(objectPath, "https://") {
		return objectPath, nil
	}
	if r.Bucket == "" {
		return "", errors.New("bucket is not configured")
	}

	ttl := r.TTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}

	url, err := r.Client.Bucket(r.Bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for saving, retrieving, and deleting
// binary objects and for minting time-limited download URLs.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	SignedURL(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}

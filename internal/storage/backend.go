// Package storage defines the object store used for file content.
// File metadata lives in the metadata repositories; this package only moves bytes.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist in the store
var ErrObjectNotFound = errors.New("object not found")

// PresignOptions controls how a presigned GET URL is rendered by the browser
type PresignOptions struct {
	FileName    string
	ContentType string
	Inline      bool // inline disposition (preview) instead of attachment (download)
	TTL         time.Duration
}

// BlobStore is the interface for content storage backends.
type BlobStore interface {
	// Put uploads content to the given key
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Copy duplicates the object at srcKey to dstKey
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a short-lived URL for fetching the object directly
	PresignGet(ctx context.Context, key string, opts PresignOptions) (string, error)

	// Type returns the backend identifier ("s3", "memory")
	Type() string
}

// ObjectKey builds the blob key for content owned by ownerID.
// Keys are immutable for the life of a file; renames and moves never touch the blob.
func ObjectKey(ownerID, blobID string) string {
	return path.Join("users", ownerID, "blobs", blobID)
}

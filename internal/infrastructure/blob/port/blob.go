package port

import (
	"context"
	"io"
)

// StoredBlob describes a blob after a successful Save.
type StoredBlob struct {
	URL  string
	Name string
	Size int64
}

// Store is the contract for binary attachment storage. Implementations must be
// concurrency-safe. URLs returned by Save are opaque to callers and are the
// only handle used for Open and Delete.
type Store interface {
	// Save streams r into storage under a generated name. The original file
	// name is kept for display only and never used as the storage key.
	Save(ctx context.Context, r io.Reader, originalName string, contentType string) (StoredBlob, error)

	// Open returns a reader for the blob at url. Callers own closing it.
	Open(ctx context.Context, url string) (io.ReadCloser, error)

	// Delete removes the blob at url. Deleting a missing blob is not an error.
	Delete(ctx context.Context, url string) error
}

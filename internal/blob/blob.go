// Package blob stores uploaded files (product images, order
// documents) in an object store.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("blob not found")

// Object describes one stored blob.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the object storage contract.
type Store interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error
	// Download returns the blob's content. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Package storage stores user uploaded objects such as avatars.
package storage

import (
	"context"
	"io"
)

// ObjectStorage saves objects and returns a reference clients can fetch.
type ObjectStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a reference returned by Save back to its key.
	KeyFromURL(ref string) (string, bool)
}

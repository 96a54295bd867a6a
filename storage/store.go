package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

type PutResult struct {
	Key      string
	Location string
	ETag     string
}

// ObjectStore is a flat key/value blob store. Put replaces any existing
// object under the same key.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Put(ctx context.Context, key string, contentType string, reader io.Reader) (*PutResult, error)

	Delete(ctx context.Context, key string) error

	List(ctx context.Context, prefix string) ([]string, error)

	PublicURL(key string) string
}

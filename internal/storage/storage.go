package storage

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Store persists binary assets under generated keys.
type Store interface {
	// Save writes data under dir with the given extension and returns the key.
	Save(ctx context.Context, dir string, data []byte, ext string) (string, error)
	Delete(ctx context.Context, key string) error
	// URL is the public location of key: a path for local storage, an
	// absolute URL for object storage.
	URL(key string) string
}

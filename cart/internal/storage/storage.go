package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cart key not found")

// Storage is the key value store a cart writes through to. Values are opaque
// JSON documents.
type Storage interface {
	Load(c context.Context, key string) ([]byte, error)
	Save(c context.Context, key string, value []byte) error
	Delete(c context.Context, keys ...string) error
}

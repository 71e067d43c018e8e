package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
)

// LocalStorage is device-local key/value persistence, the equivalent of
// a browser's localStorage.
type LocalStorage interface {
	// GetItem returns ErrNotFound when key has no value.
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

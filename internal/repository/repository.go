// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates that a requested key does not exist (or expired)
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// KVStore is the durable key-value store behind the hub's local state.
// Values are JSON strings. A ttl of zero means the entry never expires.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

package sources

import (
	"context"

	"github.com/akave-ai/logingest/internal/model"
)

// Reader retrieves one log file and decodes it into raw records.
// Failures are *FetchError or *DecodeError and are never retried.
// Implementations must be safe for concurrent use.
type Reader interface {
	Read(ctx context.Context, bucket, key string) ([]model.RawRecord, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ctx context.Context, bucket, key string) ([]model.RawRecord, error)

func (f ReaderFunc) Read(ctx context.Context, bucket, key string) ([]model.RawRecord, error) {
	return f(ctx, bucket, key)
}

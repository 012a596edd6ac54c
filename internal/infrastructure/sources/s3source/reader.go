package s3source

import (
	"context"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/model"
	"github.com/akave-ai/logingest/internal/storage"
)

// ObjectGetter downloads a whole object. *storage.S3Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Reader reads log files from an object store.
type Reader struct {
	objects ObjectGetter
}

// NewReader returns a Reader backed by objects.
func NewReader(objects ObjectGetter) *Reader {
	return &Reader{objects: objects}
}

func (r *Reader) Read(ctx context.Context, bucket, key string) ([]model.RawRecord, error) {
	data, err := r.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, &sources.FetchError{Bucket: bucket, Key: key, Code: storage.ErrorCode(err), Err: err}
	}
	recs, err := sources.Decode(data)
	if err != nil {
		return nil, &sources.DecodeError{Bucket: bucket, Key: key, Err: err}
	}
	return recs, nil
}

package localsource

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/model"
)

// Reader reads log files from a directory tree. Paths are resolved inside
// root; a bucket or key that climbs out of it fails like a missing file.
type Reader struct {
	root string
}

// NewReader returns a Reader rooted at dir.
func NewReader(dir string) *Reader {
	return &Reader{root: dir}
}

func (r *Reader) Read(_ context.Context, bucket, key string) ([]model.RawRecord, error) {
	data, err := r.readFile(bucket, key)
	if err != nil {
		return nil, &sources.FetchError{Bucket: bucket, Key: key, Err: err}
	}
	recs, err := sources.Decode(data)
	if err != nil {
		return nil, &sources.DecodeError{Bucket: bucket, Key: key, Err: err}
	}
	return recs, nil
}

func (r *Reader) readFile(bucket, key string) ([]byte, error) {
	root, err := os.OpenRoot(r.root)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(filepath.Join(bucket, key))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

package s3source

import (
	"context"
	"fmt"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/storage"
)

// Name is the backend name this package registers under.
const Name = "s3"

func init() {
	sources.GlobalRegistry.Register(&Factory{})
}

// Factory creates S3 readers. Registers as "s3".
type Factory struct{}

func (f *Factory) Name() string {
	return Name
}

func (f *Factory) ConfigSpec() sources.SourceTypeInfo {
	return sources.SourceTypeInfo{
		Type:        Name,
		Description: "Amazon S3 or an S3-compatible object store. Objects are downloaded whole and decoded as a JSON array of log records.",
		Fields: []sources.ConfigField{
			{Name: "region", Type: "string", Required: false, Description: "AWS region (defaults to us-west-2)", Example: "us-west-2"},
			{Name: "endpoint", Type: "string", Required: false, Description: "Custom S3-compatible endpoint", Example: "http://localhost:9000"},
			{Name: "use_path_style", Type: "bool", Required: false, Description: "Address buckets by path instead of virtual host"},
			{Name: "access_key", Type: "string", Required: false, Description: "Static access key; default credential chain when empty"},
			{Name: "secret_key", Type: "string", Required: false, Description: "Static secret key"},
		},
	}
}

func (f *Factory) Create(ctx context.Context, cfg sources.Config) (sources.Reader, error) {
	client, err := storage.NewS3Client(ctx, storage.S3Options{
		Region:       cfg.String("region"),
		Endpoint:     cfg.String("endpoint"),
		UsePathStyle: cfg.Bool("use_path_style"),
		AccessKey:    cfg.String("access_key"),
		SecretKey:    cfg.String("secret_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 source: %w", err)
	}
	return NewReader(client), nil
}

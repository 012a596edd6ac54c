package localsource

import (
	"context"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
)

// Name is the backend name this package registers under.
const Name = "local"

func init() {
	sources.GlobalRegistry.Register(&Factory{})
}

// Factory creates local filesystem readers. Registers as "local".
type Factory struct{}

func (f *Factory) Name() string {
	return Name
}

func (f *Factory) ConfigSpec() sources.SourceTypeInfo {
	return sources.SourceTypeInfo{
		Type:        Name,
		Description: "Local filesystem. The bucket names a directory under the root and the key names a file beneath it.",
		Fields: []sources.ConfigField{
			{Name: "root", Type: "string", Required: false, Description: "Directory that buckets are resolved against", Example: "/var/lib/logingest"},
		},
	}
}

func (f *Factory) Create(_ context.Context, cfg sources.Config) (sources.Reader, error) {
	root := cfg.String("root")
	if root == "" {
		root = "."
	}
	return NewReader(root), nil
}

package sources

import "context"

// Factory creates a Reader from config.
// Each backend (s3, local) implements and registers a Factory.
// ConfigSpec declares which configuration fields the backend reads.
type Factory interface {
	Name() string
	ConfigSpec() SourceTypeInfo
	Create(ctx context.Context, cfg Config) (Reader, error)
}

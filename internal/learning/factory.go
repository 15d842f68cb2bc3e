package learning

import (
	"context"
	"fmt"
)

// Backend kinds accepted by OpenBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// BackendOptions selects and configures a backend.
type BackendOptions struct {
	Kind            string
	Path            string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// OpenBackend creates the backend described by opts.
func OpenBackend(ctx context.Context, opts BackendOptions) (Backend, error) {
	switch opts.Kind {
	case BackendFile, "":
		return NewFileBackend(opts.Path), nil
	case BackendSQLite:
		return NewSQLiteBackend(ctx, opts.Path)
	case BackendMongo:
		return NewMongoBackend(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Kind)
	}
}

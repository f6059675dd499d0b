package port

import "context"

// FileStorage keeps archived exports under relative paths
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Exists(ctx context.Context, path string) bool
	GetFullPath(relativePath string) string
}

package ports

import (
	"context"
	"io"
)

// ObjectStorage stores processed avatar images and returns the URL they will
// be served from.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}

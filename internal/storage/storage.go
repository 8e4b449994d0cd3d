package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the blob backend consumed by the project services. The
// production implementation is MinIOClient; tests substitute an in-memory
// fake.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectName string) error
	DeleteMany(ctx context.Context, objectNames []string) error
	PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration, downloadName string) (string, error)
}

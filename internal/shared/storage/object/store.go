package object

import (
	"context"
	"io"
)

// BlobStore defines the contract for durable upload and retrieval of named
// binary blobs. Upload returns a stable opaque path usable with Open.
type BlobStore interface {
	Upload(ctx context.Context, fileName string, r io.Reader) (path string, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

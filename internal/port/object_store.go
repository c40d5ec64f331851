package port

import (
	"context"
	"io"
)

// CompletedPart is one uploaded part of a multipart transfer.
type CompletedPart struct {
	PartNumber int
	ETag       string
	SizeBytes  int64
}

// ObjectLocation identifies a stored object.
type ObjectLocation struct {
	Bucket    string
	Key       string
	URL       string
	URI       string
	ETag      string
	SizeBytes int64
}

// ObjectStore is a bucket-scoped multipart object store.
type ObjectStore interface {
	CreateTransfer(ctx context.Context, key, contentType string) (string, error)
	UploadPart(ctx context.Context, key, transferID string, partNumber int, r io.Reader, size int64) (string, error)
	CompleteTransfer(ctx context.Context, key, transferID string, parts []CompletedPart) (ObjectLocation, error)
	AbortTransfer(ctx context.Context, key, transferID string) error
}

package mock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

var ErrPartUpload = errors.New("connection reset by peer")

// CompleteCall captures one CompleteTransfer invocation.
type CompleteCall struct {
	Key        string
	TransferID string
	Parts      []port.CompletedPart
}

// PartCall captures one UploadPart invocation.
type PartCall struct {
	TransferID string
	PartNumber int
	Size       int64
	Read       int64
}

// ObjectStore implements port.ObjectStore for tests.
type ObjectStore struct {
	mu sync.Mutex

	Bucket string

	CreateErr   error
	CompleteErr error
	AbortErr    error
	// FailTransfers makes every part upload fail for the first N transfers.
	FailTransfers int

	Transfers []string
	Parts     []PartCall
	Completed []CompleteCall
	Aborted   []string
}

func (s *ObjectStore) CreateTransfer(ctx context.Context, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	id := fmt.Sprintf("transfer-%d", len(s.Transfers)+1)
	s.Transfers = append(s.Transfers, id)
	return id, nil
}

func (s *ObjectStore) UploadPart(ctx context.Context, key, transferID string, partNumber int, r io.Reader, size int64) (string, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Parts = append(s.Parts, PartCall{TransferID: transferID, PartNumber: partNumber, Size: size, Read: n})
	if len(s.Transfers) <= s.FailTransfers {
		return "", ErrPartUpload
	}
	return fmt.Sprintf("%s-etag-%d", transferID, partNumber), nil
}

func (s *ObjectStore) CompleteTransfer(ctx context.Context, key, transferID string, parts []port.CompletedPart) (port.ObjectLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]port.CompletedPart, len(parts))
	copy(cp, parts)
	s.Completed = append(s.Completed, CompleteCall{Key: key, TransferID: transferID, Parts: cp})
	if s.CompleteErr != nil {
		return port.ObjectLocation{}, s.CompleteErr
	}

	bucket := s.Bucket
	if bucket == "" {
		bucket = "videos"
	}
	var size int64
	for _, p := range parts {
		size += p.SizeBytes
	}
	return port.ObjectLocation{
		Bucket:    bucket,
		Key:       key,
		URL:       "https://minio.example.com/" + bucket + "/" + key,
		URI:       "s3://" + bucket + "/" + key,
		ETag:      "final-" + transferID,
		SizeBytes: size,
	}, nil
}

func (s *ObjectStore) AbortTransfer(ctx context.Context, key, transferID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Aborted = append(s.Aborted, transferID)
	return s.AbortErr
}

// Calls reports the total number of object store calls made.
func (s *ObjectStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Transfers) + len(s.Parts) + len(s.Completed) + len(s.Aborted)
}

package port

import "context"

// Cache stores rendered transcription statuses once they are terminal.
type Cache interface {
	GetTranscriptionStatus(ctx context.Context, jobName string) ([]byte, error)
	GetEtagTranscriptionStatus(ctx context.Context, jobName string) (string, error)
	SetTranscriptionStatus(ctx context.Context, jobName string, data []byte)
	SetEtagTranscriptionStatus(ctx context.Context, jobName string, etag string)
	DeleteTranscriptionStatus(ctx context.Context, jobName string) error
}

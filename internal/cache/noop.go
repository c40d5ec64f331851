package cache

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetTranscriptionStatus(ctx context.Context, jobName string) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagTranscriptionStatus(ctx context.Context, jobName string) (string, error) {
	return "", nil
}

func (n *NoopCache) SetTranscriptionStatus(ctx context.Context, jobName string, data []byte) {}

func (n *NoopCache) SetEtagTranscriptionStatus(ctx context.Context, jobName string, etag string) {}

func (n *NoopCache) DeleteTranscriptionStatus(ctx context.Context, jobName string) error {
	return nil
}

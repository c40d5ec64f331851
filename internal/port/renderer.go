package port

import "context"

// HTTPRenderer mediates between HTTP handlers and the transcription status
// use case. It returns the JSON body, an ETag derived from it and whether the
// status is terminal.
type HTTPRenderer interface {
	RenderTranscriptionStatus(ctx context.Context, getter TranscriptionStatusGetter, jobName string) ([]byte, string, bool, error)
}

package port

import "context"

type StartJobInput struct {
	JobName      string
	LanguageCode string
	MediaURI     string
	MediaFormat  string
	OutputBucket string
}

// JobState is the raw state reported by the transcription service.
type JobState struct {
	Status        string
	TranscriptURI string
	FailureReason string
}

// Transcriber talks to the external speech-to-text service.
type Transcriber interface {
	StartJob(ctx context.Context, in StartJobInput) error
	GetJob(ctx context.Context, jobName string) (JobState, error)
}
